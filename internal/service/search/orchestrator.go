package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// MinQueryLength is the shortest trimmed query, in runes, that triggers a search.
const MinQueryLength = 2

// Source call outcomes reported to the Observer.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Observer receives fan-out telemetry.
type Observer interface {
	SourceCompleted(source, outcome string, elapsed time.Duration)
	StaleDiscarded()
}

type nopObserver struct{}

func (nopObserver) SourceCompleted(string, string, time.Duration) {}
func (nopObserver) StaleDiscarded()                               {}

// SearchOptions scope one query.
type SearchOptions struct {
	Language string
	UserID   uuid.UUID
	DeckID   *uuid.UUID
	// Enabled lists the source ids the caller wants. nil means the
	// registry's default-enabled sources; an empty non-nil slice means none.
	Enabled []string
}

// Outcome is what one Search call ends with. Stale is true when a newer
// query started before this one settled; Snapshot is then the state left
// by the newer query, untouched by this one.
type Outcome struct {
	Snapshot *Snapshot
	Stale    bool
}

// Deps are the collaborators shared by every Orchestrator.
type Deps struct {
	Registry   *Registry
	Dispatcher *Dispatcher
	// Stores resolve built-in sources directly so their errors are observable.
	Stores   map[string]Searcher
	Observer Observer
	Logger   *slog.Logger
}

// Orchestrator owns one search session: it fans a query out to every active
// source, waits for all of them to settle and publishes the batch, unless a
// newer query has started in the meantime.
type Orchestrator struct {
	registry   *Registry
	dispatcher *Dispatcher
	stores     map[string]Searcher
	obs        Observer
	log        *slog.Logger

	mu         sync.Mutex
	generation uint64
	current    atomic.Pointer[Snapshot]
}

// NewOrchestrator creates an Orchestrator with an empty session.
func NewOrchestrator(deps Deps) *Orchestrator {
	obs := deps.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		stores:     deps.Stores,
		obs:        obs,
		log:        logger.With("service", "search"),
	}
	o.current.Store(emptySnapshot("", "", 0))
	return o
}

// Snapshot returns the latest published state.
func (o *Orchestrator) Snapshot() *Snapshot {
	return o.current.Load()
}

// Clear empties the session and invalidates any in-flight query.
func (o *Orchestrator) Clear() *Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	snap := emptySnapshot("", "", o.generation)
	o.current.Store(snap)
	return snap
}

// Search runs query against the active sources and blocks until all of
// them have settled. Queries shorter than MinQueryLength clear the session
// without any source call. Source failures never surface: a failed source
// contributes an empty list.
func (o *Orchestrator) Search(ctx context.Context, query string, opts SearchOptions) Outcome {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		o.mu.Lock()
		o.generation++
		snap := emptySnapshot(trimmed, opts.Language, o.generation)
		o.current.Store(snap)
		o.mu.Unlock()
		return Outcome{Snapshot: snap}
	}

	active := o.registry.Active(opts.Enabled, opts.Language)
	ids := make([]string, len(active))
	for i, s := range active {
		ids[i] = s.ID
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	pending := emptySnapshot(trimmed, opts.Language, gen)
	pending.Active = ids
	for _, id := range ids {
		pending.ResultsBySource[id] = []domain.LookupResult{}
		pending.LoadingBySource[id] = true
	}
	o.current.Store(pending)
	o.mu.Unlock()

	lists := o.fanOut(ctx, active, trimmed, opts)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen {
		o.obs.StaleDiscarded()
		o.log.DebugContext(ctx, "discarding stale search",
			slog.String("query", trimmed),
			slog.Uint64("generation", gen),
			slog.Uint64("current", o.generation),
		)
		return Outcome{Snapshot: o.current.Load(), Stale: true}
	}

	settled := pending.clone()
	for i, id := range ids {
		settled.ResultsBySource[id] = lists[i]
		settled.LoadingBySource[id] = false
	}
	o.current.Store(settled)

	return Outcome{Snapshot: settled}
}

// fanOut calls every source concurrently and waits for all of them. Each
// goroutine writes only its own slot and always returns nil, so one failure
// never cancels or hides another source's result.
func (o *Orchestrator) fanOut(ctx context.Context, active []domain.SourceDescriptor, query string, opts SearchOptions) [][]domain.LookupResult {
	// Staleness is decided by generation, not by the caller's context.
	callCtx := context.WithoutCancel(ctx)
	lookup := domain.LookupOptions{UserID: opts.UserID, DeckID: opts.DeckID}

	lists := make([][]domain.LookupResult, len(active))
	var g errgroup.Group

	for i, src := range active {
		g.Go(func() error {
			lists[i] = o.callSource(callCtx, src, query, opts.Language, lookup)
			return nil
		})
	}
	_ = g.Wait()

	return lists
}

func (o *Orchestrator) callSource(ctx context.Context, src domain.SourceDescriptor, query, language string, opts domain.LookupOptions) (results []domain.LookupResult) {
	start := time.Now()
	outcome := OutcomeOK

	defer func() {
		if r := recover(); r != nil {
			o.log.ErrorContext(ctx, "source panicked",
				slog.String("source", src.ID),
				slog.String("panic", fmt.Sprint(r)),
			)
			results = []domain.LookupResult{}
			outcome = OutcomePanic
		}
		if outcome == OutcomeOK && len(results) == 0 {
			outcome = OutcomeEmpty
		}
		o.obs.SourceCompleted(src.ID, outcome, time.Since(start))
	}()

	if store, ok := o.stores[src.ID]; ok {
		list, err := store.Search(ctx, query, language, opts)
		if err != nil {
			o.log.WarnContext(ctx, "store search failed",
				slog.String("source", src.ID),
				slog.String("error", err.Error()),
			)
			outcome = OutcomeError
			return []domain.LookupResult{}
		}
		return normalizeAll(list)
	}

	return o.dispatcher.Search(ctx, src.ID, query, language, opts)
}
