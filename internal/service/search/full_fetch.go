package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// FullFetcher retrieves the complete entry of a word from one source.
// A nil entry with a nil error means the word is unknown.
type FullFetcher interface {
	FetchFull(ctx context.Context, word, language string) (*domain.FullEntry, error)
}

// FullFetchers routes full-entry requests by source id and caches answers,
// including "unknown word" answers. Failures are not cached.
type FullFetchers struct {
	mu       sync.RWMutex
	fetchers map[string]FullFetcher
	cache    *expirable.LRU[string, *domain.FullEntry]
	log      *slog.Logger
}

// NewFullFetchers creates an empty set with an LRU of cacheSize entries
// living for ttl.
func NewFullFetchers(cacheSize int, ttl time.Duration, logger *slog.Logger) *FullFetchers {
	return &FullFetchers{
		fetchers: make(map[string]FullFetcher),
		cache:    expirable.NewLRU[string, *domain.FullEntry](cacheSize, nil, ttl),
		log:      logger.With("component", "full_fetch"),
	}
}

// Register binds sourceID to f.
func (ff *FullFetchers) Register(sourceID string, f FullFetcher) {
	ff.mu.Lock()
	ff.fetchers[sourceID] = f
	ff.mu.Unlock()
}

// Supports reports whether sourceID has a full-entry fetcher.
func (ff *FullFetchers) Supports(sourceID string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()
	_, ok := ff.fetchers[sourceID]
	return ok
}

// Fetch returns the full entry of word, or nil when the source has no
// fetcher, the word is unknown, or the upstream failed.
func (ff *FullFetchers) Fetch(ctx context.Context, sourceID, word, language string) *domain.FullEntry {
	ff.mu.RLock()
	f, ok := ff.fetchers[sourceID]
	ff.mu.RUnlock()
	if !ok {
		return nil
	}

	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}

	key := sourceID + "\x00" + domain.NormalizeWord(word) + "\x00" + language
	if entry, ok := ff.cache.Get(key); ok {
		return entry
	}

	entry, err := f.FetchFull(ctx, word, language)
	if err != nil {
		ff.log.WarnContext(ctx, "full entry fetch failed",
			slog.String("source", sourceID),
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return nil
	}

	ff.cache.Add(key, entry)
	return entry
}
