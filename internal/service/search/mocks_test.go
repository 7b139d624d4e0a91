package search

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/lexicon/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// searcherMock is a hand-written mock for Searcher.
type searcherMock struct {
	SearchFunc func(ctx context.Context, query, language string, opts domain.LookupOptions) ([]domain.LookupResult, error)

	mu    sync.Mutex
	calls []string
}

func (m *searcherMock) Search(ctx context.Context, query, language string, opts domain.LookupOptions) ([]domain.LookupResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()
	return m.SearchFunc(ctx, query, language, opts)
}

func (m *searcherMock) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// fullFetcherMock is a hand-written mock for FullFetcher.
type fullFetcherMock struct {
	FetchFullFunc func(ctx context.Context, word, language string) (*domain.FullEntry, error)

	mu    sync.Mutex
	calls int
}

func (m *fullFetcherMock) FetchFull(ctx context.Context, word, language string) (*domain.FullEntry, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.FetchFullFunc(ctx, word, language)
}

func (m *fullFetcherMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// loaderMock is a hand-written mock for SourceLoader.
type loaderMock struct {
	ListSourcesFunc func(ctx context.Context) ([]domain.SourceDescriptor, error)
}

func (m *loaderMock) ListSources(ctx context.Context) ([]domain.SourceDescriptor, error) {
	return m.ListSourcesFunc(ctx)
}

// observerMock records telemetry.
type observerMock struct {
	mu        sync.Mutex
	outcomes  map[string]string
	staleHits int
}

func newObserverMock() *observerMock {
	return &observerMock{outcomes: map[string]string{}}
}

func (m *observerMock) SourceCompleted(source, outcome string, _ time.Duration) {
	m.mu.Lock()
	m.outcomes[source] = outcome
	m.mu.Unlock()
}

func (m *observerMock) StaleDiscarded() {
	m.mu.Lock()
	m.staleHits++
	m.mu.Unlock()
}

func (m *observerMock) Outcome(source string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[source]
}

func (m *observerMock) Stale() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleHits
}

// results builds n results for source with the given words in order.
func results(source string, words ...string) []domain.LookupResult {
	out := make([]domain.LookupResult, len(words))
	for i, w := range words {
		out[i] = domain.LookupResult{
			ID:          domain.ResultID(source, w, i),
			Word:        w,
			Translation: source + " gloss " + w,
			Tags:        []string{},
			Examples:    []string{},
			SourceType:  source,
		}
	}
	return out
}

func staticAdapter(list []domain.LookupResult) Adapter {
	return AdapterFunc(func(context.Context, string, string, domain.LookupOptions) []domain.LookupResult {
		return list
	})
}
