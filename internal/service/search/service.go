package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// SourceView is a registry entry with its display hint.
type SourceView struct {
	domain.SourceDescriptor
	Style Style `json:"style"`
}

// Result is what a session search returns to callers.
type Result struct {
	Snapshot *Snapshot      `json:"snapshot"`
	Ranked   []RankedResult `json:"results"`
	Stale    bool           `json:"stale"`
}

// Service exposes the aggregator to transports: source listing, session
// searches and full-entry lookups.
type Service struct {
	registry *Registry
	full     *FullFetchers
	sessions *Sessions
	newOrch  func() *Orchestrator
	log      *slog.Logger
}

// NewService creates a new search Service. Sessions are created on demand
// with deps.
func NewService(
	logger *slog.Logger,
	deps Deps,
	full *FullFetchers,
	sessionSize int,
	sessionTTL time.Duration,
) *Service {
	deps.Logger = logger
	factory := func() *Orchestrator { return NewOrchestrator(deps) }
	return &Service{
		registry: deps.Registry,
		full:     full,
		sessions: NewSessions(sessionSize, sessionTTL, factory),
		newOrch:  factory,
		log:      logger.With("service", "search"),
	}
}

// Sources lists the sources accepting lang with their display hints.
func (s *Service) Sources(lang string) []SourceView {
	sources := s.registry.List(lang)
	out := make([]SourceView, 0, len(sources))
	for _, src := range sources {
		out = append(out, SourceView{SourceDescriptor: src, Style: s.registry.Style(src.ID)})
	}
	return out
}

// SourceCount returns the size of the registry.
func (s *Service) SourceCount() int {
	return len(s.registry.List(""))
}

// Search runs query in the session identified by key. An empty key runs a
// one-off search that keeps no state.
func (s *Service) Search(ctx context.Context, key, query string, opts SearchOptions) Result {
	o := s.orchestrator(key)
	outcome := o.Search(ctx, query, opts)

	s.log.DebugContext(ctx, "search settled",
		slog.String("query", strings.TrimSpace(query)),
		slog.Int("sources", len(outcome.Snapshot.Active)),
		slog.Int("results", outcome.Snapshot.Total()),
		slog.Bool("stale", outcome.Stale),
	)

	return Result{
		Snapshot: outcome.Snapshot,
		Ranked:   Rank(outcome.Snapshot.Query, outcome.Snapshot),
		Stale:    outcome.Stale,
	}
}

// Session returns the latest state of the session identified by key.
// Unknown sessions report an empty snapshot.
func (s *Service) Session(key string) Result {
	snap := emptySnapshot("", "", 0)
	if o, ok := s.sessions.Peek(key); ok && key != "" {
		snap = o.Snapshot()
	}
	return Result{Snapshot: snap, Ranked: Rank(snap.Query, snap)}
}

// Clear empties the session identified by key.
func (s *Service) Clear(key string) Result {
	if o, ok := s.sessions.Peek(key); ok && key != "" {
		snap := o.Clear()
		return Result{Snapshot: snap, Ranked: []RankedResult{}}
	}
	return Result{Snapshot: emptySnapshot("", "", 0), Ranked: []RankedResult{}}
}

// FetchFull returns the complete entry of word from sourceID. Returns
// domain.ErrNotFound when the source has no full variant or nothing was found.
func (s *Service) FetchFull(ctx context.Context, sourceID, word, language string) (*domain.FullEntry, error) {
	if strings.TrimSpace(word) == "" {
		return nil, domain.NewValidationError("word", "required")
	}
	if !s.full.Supports(sourceID) {
		return nil, domain.ErrNotFound
	}

	entry := s.full.Fetch(ctx, sourceID, word, language)
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) orchestrator(key string) *Orchestrator {
	if key == "" {
		return s.newOrch()
	}
	return s.sessions.Get(key)
}
