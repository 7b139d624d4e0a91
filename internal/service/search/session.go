package search

import (
	"maps"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// Snapshot is one immutable view of a search session. A new Snapshot is
// published for every state change; published values are never mutated.
type Snapshot struct {
	Query           string                           `json:"query"`
	Language        string                           `json:"language"`
	Generation      uint64                           `json:"generation"`
	Active          []string                         `json:"active"`
	ResultsBySource map[string][]domain.LookupResult `json:"results_by_source"`
	LoadingBySource map[string]bool                  `json:"loading_by_source"`
}

func emptySnapshot(query, language string, generation uint64) *Snapshot {
	return &Snapshot{
		Query:           query,
		Language:        language,
		Generation:      generation,
		Active:          []string{},
		ResultsBySource: map[string][]domain.LookupResult{},
		LoadingBySource: map[string]bool{},
	}
}

// Loading reports whether any source is still pending.
func (s *Snapshot) Loading() bool {
	for _, v := range s.LoadingBySource {
		if v {
			return true
		}
	}
	return false
}

// Total returns the number of results across all sources.
func (s *Snapshot) Total() int {
	n := 0
	for _, list := range s.ResultsBySource {
		n += len(list)
	}
	return n
}

// clone returns a deep-enough copy for building the next snapshot.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Active = append([]string(nil), s.Active...)
	c.ResultsBySource = maps.Clone(s.ResultsBySource)
	c.LoadingBySource = maps.Clone(s.LoadingBySource)
	return &c
}

// Sessions keeps one Orchestrator per session key in an expiring LRU.
type Sessions struct {
	mu      sync.Mutex
	cache   *expirable.LRU[string, *Orchestrator]
	factory func() *Orchestrator
}

// NewSessions creates a session store holding at most size sessions,
// each evicted ttl after its last use.
func NewSessions(size int, ttl time.Duration, factory func() *Orchestrator) *Sessions {
	return &Sessions{
		cache:   expirable.NewLRU[string, *Orchestrator](size, nil, ttl),
		factory: factory,
	}
}

// Get returns the session's orchestrator, creating it on first use.
func (s *Sessions) Get(key string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.cache.Get(key); ok {
		// Re-adding refreshes the expiry.
		s.cache.Add(key, o)
		return o
	}
	o := s.factory()
	s.cache.Add(key, o)
	return o
}

// Peek returns the session's orchestrator without creating one.
func (s *Sessions) Peek(key string) (*Orchestrator, bool) {
	return s.cache.Peek(key)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
