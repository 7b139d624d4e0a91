package search

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// SourceLoader returns the remotely configured source list.
type SourceLoader interface {
	ListSources(ctx context.Context) ([]domain.SourceDescriptor, error)
}

// BuiltInSources returns the static catalog every process starts with.
func BuiltInSources() []domain.SourceDescriptor {
	return []domain.SourceDescriptor{
		{
			ID:                 domain.SourcePersonal,
			DisplayName:        "My Vocabulary",
			ShortName:          "Mine",
			ColorHint:          "#3B82F6",
			IsBuiltIn:          true,
			EnabledByDefault:   true,
			SupportedLanguages: domain.AllLanguages,
		},
		{
			ID:                 domain.SourceCommunity,
			DisplayName:        "Community",
			ShortName:          "Comm",
			ColorHint:          "#8B5CF6",
			IsBuiltIn:          true,
			EnabledByDefault:   true,
			SupportedLanguages: domain.AllLanguages,
		},
		{
			ID:                 domain.SourceFreeDictionary,
			DisplayName:        "Free Dictionary",
			ShortName:          "FD",
			ColorHint:          "#10B981",
			EnabledByDefault:   true,
			SupportedLanguages: domain.LanguageSet{"en"},
		},
		{
			ID:                 domain.SourceWiktionary,
			DisplayName:        "Wiktionary",
			ShortName:          "Wiki",
			ColorHint:          "#F59E0B",
			EnabledByDefault:   true,
			SupportedLanguages: domain.AllLanguages,
		},
	}
}

// Registry is the catalog of lookup sources. A successful remote refresh
// supersedes the built-in list; built-ins missing from it stay reachable
// through Get.
type Registry struct {
	mu      sync.RWMutex
	builtIn []domain.SourceDescriptor
	remote  []domain.SourceDescriptor
	log     *slog.Logger
}

// NewRegistry creates a Registry seeded with sources, or BuiltInSources
// when none are given.
func NewRegistry(logger *slog.Logger, sources ...domain.SourceDescriptor) *Registry {
	if len(sources) == 0 {
		sources = BuiltInSources()
	}
	return &Registry{
		builtIn: dedupe(sources),
		log:     logger.With("component", "registry"),
	}
}

// Refresh replaces the source list with the loader's. Failures and empty
// results keep the current list and are only logged.
func (r *Registry) Refresh(ctx context.Context, loader SourceLoader) {
	sources, err := loader.ListSources(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "remote source registry unavailable, using built-in sources",
			slog.String("error", err.Error()))
		return
	}
	if len(sources) == 0 {
		r.log.InfoContext(ctx, "remote source registry empty, using built-in sources")
		return
	}

	sources = dedupe(sources)

	r.mu.Lock()
	r.remote = sources
	r.mu.Unlock()

	r.log.InfoContext(ctx, "source registry refreshed", slog.Int("sources", len(sources)))
}

// List returns the sources accepting lang, in catalog order. An empty lang
// returns every source.
func (r *Registry) List(lang string) []domain.SourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SourceDescriptor, 0, len(r.current()))
	for _, s := range r.current() {
		if s.SupportedLanguages.Accepts(lang) {
			out = append(out, s)
		}
	}
	return out
}

// Get looks a source up in the current list, then among the built-ins.
func (r *Registry) Get(id string) (domain.SourceDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.remote {
		if s.ID == id {
			return s, true
		}
	}
	for _, s := range r.builtIn {
		if s.ID == id {
			return s, true
		}
	}
	return domain.SourceDescriptor{}, false
}

// DefaultEnabled returns the ids of sources enabled by default.
func (r *Registry) DefaultEnabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, s := range r.current() {
		if s.EnabledByDefault {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Active resolves the sources a query fans out to: enabled ids (registry
// defaults when nil) that accept lang. Catalog order comes first, then
// enabled ids only reachable through the built-in fallback.
func (r *Registry) Active(enabled []string, lang string) []domain.SourceDescriptor {
	if enabled == nil {
		enabled = r.DefaultEnabled()
	}

	listed := r.List(lang)
	out := make([]domain.SourceDescriptor, 0, len(enabled))
	seen := make(map[string]bool, len(enabled))

	for _, s := range listed {
		if slices.Contains(enabled, s.ID) {
			out = append(out, s)
			seen[s.ID] = true
		}
	}
	for _, id := range enabled {
		if seen[id] {
			continue
		}
		if s, ok := r.Get(id); ok && s.SupportedLanguages.Accepts(lang) {
			out = append(out, s)
			seen[id] = true
		}
	}
	return out
}

func (r *Registry) current() []domain.SourceDescriptor {
	if len(r.remote) > 0 {
		return r.remote
	}
	return r.builtIn
}

func dedupe(sources []domain.SourceDescriptor) []domain.SourceDescriptor {
	seen := make(map[string]bool, len(sources))
	out := make([]domain.SourceDescriptor, 0, len(sources))
	for _, s := range sources {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
