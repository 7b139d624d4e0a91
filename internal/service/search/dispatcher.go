package search

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// Adapter turns a query into normalized results for one source. It never
// fails: faults are absorbed and yield an empty list.
type Adapter interface {
	Search(ctx context.Context, query, language string, opts domain.LookupOptions) []domain.LookupResult
}

// Searcher is a store-backed source that reports its errors.
type Searcher interface {
	Search(ctx context.Context, query, language string, opts domain.LookupOptions) ([]domain.LookupResult, error)
}

// AdapterFunc adapts an ordinary function to Adapter.
type AdapterFunc func(ctx context.Context, query, language string, opts domain.LookupOptions) []domain.LookupResult

// Search calls f.
func (f AdapterFunc) Search(ctx context.Context, query, language string, opts domain.LookupOptions) []domain.LookupResult {
	return f(ctx, query, language, opts)
}

// FromSearcher wraps a Searcher so it can be registered with a Dispatcher.
// Errors are logged and become an empty list.
func FromSearcher(id string, s Searcher, logger *slog.Logger) Adapter {
	log := logger.With("source", id)
	return AdapterFunc(func(ctx context.Context, query, language string, opts domain.LookupOptions) []domain.LookupResult {
		results, err := s.Search(ctx, query, language, opts)
		if err != nil {
			log.WarnContext(ctx, "store search failed", slog.String("error", err.Error()))
			return []domain.LookupResult{}
		}
		return results
	})
}

// Dispatcher routes searches to adapters by source key. Adapters can be
// added and removed at runtime.
type Dispatcher struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	log      *slog.Logger
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		adapters: make(map[string]Adapter),
		log:      logger.With("component", "dispatcher"),
	}
}

// Register binds key to a, replacing any previous adapter.
func (d *Dispatcher) Register(key string, a Adapter) {
	d.mu.Lock()
	d.adapters[key] = a
	d.mu.Unlock()
}

// Unregister removes the adapter bound to key, if any.
func (d *Dispatcher) Unregister(key string) {
	d.mu.Lock()
	delete(d.adapters, key)
	d.mu.Unlock()
}

// Keys returns the registered keys in sorted order.
func (d *Dispatcher) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, 0, len(d.adapters))
	for k := range d.adapters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Has reports whether key has an adapter.
func (d *Dispatcher) Has(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.adapters[key]
	return ok
}

// Search runs the adapter bound to key. An unknown key yields an empty list.
func (d *Dispatcher) Search(ctx context.Context, key, query, language string, opts domain.LookupOptions) []domain.LookupResult {
	d.mu.RLock()
	a, ok := d.adapters[key]
	d.mu.RUnlock()

	if !ok {
		d.log.DebugContext(ctx, "no adapter for source", slog.String("source", key))
		return []domain.LookupResult{}
	}

	return normalizeAll(a.Search(ctx, query, language, opts))
}

func normalizeAll(results []domain.LookupResult) []domain.LookupResult {
	out := make([]domain.LookupResult, len(results))
	for i, r := range results {
		out[i] = r.Normalized()
	}
	return out
}
