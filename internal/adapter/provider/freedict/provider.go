// Package freedict adapts the FreeDictionary API (dictionaryapi.dev), a
// monolingual English dictionary, to the normalized lookup shapes.
package freedict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/heartmarshall/lexicon/internal/adapter/provider/upstream"
	"github.com/heartmarshall/lexicon/internal/domain"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2"

	// Language is the only language the API serves.
	Language = "en"

	maxSynonymTags = 3
)

// Provider fetches dictionary data from the FreeDictionary API.
type Provider struct {
	baseURL string
	client  *upstream.Client
	log     *slog.Logger
}

// NewProvider creates a Provider rooted at baseURL (DefaultBaseURL when empty).
func NewProvider(baseURL string, opts upstream.Options, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := logger.With("adapter", "freedict")
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  upstream.NewClient("freedict", opts, log),
		log:     log,
	}
}

// Search returns at most domain.MaxResultsPerLookup results, one per
// definition in upstream order. Any language other than English yields an
// empty list without a request. Upstream faults are logged and yield an
// empty list.
func (p *Provider) Search(ctx context.Context, query, language string, _ domain.LookupOptions) []domain.LookupResult {
	word := strings.TrimSpace(query)
	if word == "" || !supports(language) {
		return []domain.LookupResult{}
	}

	entries, err := p.fetch(ctx, word)
	if err != nil {
		p.logFault(ctx, "search", word, err)
		return []domain.LookupResult{}
	}

	return mapSearchResults(entries)
}

// FetchFull returns every meaning and definition of word, grouped by part
// of speech. Returns nil, nil when the word is unknown or the language is
// not English.
func (p *Provider) FetchFull(ctx context.Context, word, language string) (*domain.FullEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" || !supports(language) {
		return nil, nil
	}

	entries, err := p.fetch(ctx, word)
	if errors.Is(err, upstream.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	return mapFullEntry(entries), nil
}

func (p *Provider) fetch(ctx context.Context, word string) ([]apiEntry, error) {
	reqURL := fmt.Sprintf("%s/entries/%s/%s", p.baseURL, Language, url.PathEscape(word))

	p.log.DebugContext(ctx, "freedict request", slog.String("word", word))

	var entries []apiEntry
	if err := p.client.GetJSON(ctx, reqURL, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *Provider) logFault(ctx context.Context, op, word string, err error) {
	if errors.Is(err, upstream.ErrNotFound) {
		p.log.DebugContext(ctx, "freedict word not found", slog.String("op", op), slog.String("word", word))
		return
	}
	p.log.WarnContext(ctx, "freedict lookup failed",
		slog.String("op", op),
		slog.String("word", word),
		slog.String("error", err.Error()),
	)
}

func supports(language string) bool {
	return language == "" || strings.EqualFold(language, Language)
}

// mapSearchResults walks entries → meanings → definitions, emitting one
// result per definition and stopping as soon as the cap is reached.
func mapSearchResults(entries []apiEntry) []domain.LookupResult {
	results := make([]domain.LookupResult, 0, domain.MaxResultsPerLookup)

outer:
	for _, entry := range entries {
		phonetic := entry.phonetic()
		audio := entry.audioURL()

		for _, meaning := range entry.Meanings {
			for _, def := range meaning.Definitions {
				if len(results) >= domain.MaxResultsPerLookup {
					break outer
				}

				examples := []string{}
				if def.Example != "" {
					examples = append(examples, def.Example)
				}

				results = append(results, domain.LookupResult{
					ID:          domain.ResultID(domain.SourceFreeDictionary, entry.Word, len(results)),
					Word:        entry.Word,
					Phonetic:    phonetic,
					Translation: def.Definition,
					Language:    Language,
					Tags:        tags(meaning, def),
					Examples:    examples,
					AudioURL:    audio,
					SourceType:  domain.SourceFreeDictionary,
				})
			}
		}
	}

	return results
}

// tags lists the part of speech followed by a few synonym hints.
func tags(meaning apiMeaning, def apiDefinition) []string {
	out := []string{}
	if meaning.PartOfSpeech != "" {
		out = append(out, meaning.PartOfSpeech)
	}
	synonyms := def.Synonyms
	if len(synonyms) == 0 {
		synonyms = meaning.Synonyms
	}
	if len(synonyms) > maxSynonymTags {
		synonyms = synonyms[:maxSynonymTags]
	}
	return append(out, synonyms...)
}

// mapFullEntry merges definitions of all entries into part-of-speech groups.
func mapFullEntry(entries []apiEntry) *domain.FullEntry {
	full := &domain.FullEntry{
		Word:       entries[0].Word,
		Language:   Language,
		SourceType: domain.SourceFreeDictionary,
	}

	var groups domain.MeaningGrouper
	for _, entry := range entries {
		if full.Phonetic == "" {
			full.Phonetic = entry.phonetic()
		}
		if full.AudioURL == nil {
			full.AudioURL = entry.audioURL()
		}

		for _, meaning := range entry.Meanings {
			defs := make([]domain.Definition, 0, len(meaning.Definitions))
			for _, def := range meaning.Definitions {
				defs = append(defs, domain.Definition{
					Definition: def.Definition,
					Example:    def.Example,
					Synonyms:   nonNil(def.Synonyms),
					Antonyms:   nonNil(def.Antonyms),
				})
			}
			groups.Add(meaning.PartOfSpeech, defs...)
		}
	}
	full.Meanings = groups.Meanings()

	return full
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
