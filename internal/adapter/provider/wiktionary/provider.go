// Package wiktionary adapts the Wiktionary REST definition endpoint, a
// multilingual dictionary keyed by language section, to the normalized
// lookup shapes.
package wiktionary

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
	// DefaultBaseURL is the public REST root of English Wiktionary.
	DefaultBaseURL = "https://en.wiktionary.org/api/rest_v1"

	// MaxUnfilteredResults caps a call made without a language filter.
	MaxUnfilteredResults = 15

	// MaxPerSection caps each language section in unfiltered mode.
	MaxPerSection = 3
)

// Provider fetches definitions from Wiktionary.
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
	log := logger.With("adapter", "wiktionary")
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  upstream.NewClient("wiktionary", opts, log),
		log:     log,
	}
}

// Search returns normalized definitions of query.
//
// With a language, only the matching section is scanned (cap 5). When that
// yields nothing, the same page is scanned again across all sections with
// the same cap. Without a language every section is scanned, at most
// MaxPerSection results each and MaxUnfilteredResults in total.
func (p *Provider) Search(ctx context.Context, query, language string, _ domain.LookupOptions) []domain.LookupResult {
	word := strings.TrimSpace(query)
	if word == "" {
		return []domain.LookupResult{}
	}

	page, err := p.fetch(ctx, word)
	if err != nil {
		p.logFault(ctx, "search", word, err)
		return []domain.LookupResult{}
	}

	if language == "" {
		return collect(page.Sections, word, "", MaxUnfilteredResults, MaxPerSection)
	}

	if section, ok := page.find(language); ok {
		results := collect([]apiSection{section}, word, language, domain.MaxResultsPerLookup, 0)
		if len(results) > 0 {
			return results
		}
	}

	p.log.DebugContext(ctx, "wiktionary language miss, scanning all sections",
		slog.String("word", word),
		slog.String("language", language),
	)
	return collect(page.Sections, word, language, domain.MaxResultsPerLookup, 0)
}

// FetchFull returns all definitions of word in the requested language
// section, or in the first section when that language is absent.
// Returns nil, nil when the word is unknown.
func (p *Provider) FetchFull(ctx context.Context, word, language string) (*domain.FullEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, nil
	}

	page, err := p.fetch(ctx, word)
	if errors.Is(err, upstream.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(page.Sections) == 0 {
		return nil, nil
	}

	section, ok := page.find(language)
	if !ok {
		section = page.Sections[0]
	}

	return mapFullEntry(section, word, language), nil
}

func (p *Provider) fetch(ctx context.Context, word string) (apiPage, error) {
	reqURL := fmt.Sprintf("%s/page/definition/%s", p.baseURL, url.PathEscape(word))

	p.log.DebugContext(ctx, "wiktionary request", slog.String("word", word))

	var page apiPage
	if err := p.client.GetJSON(ctx, reqURL, &page); err != nil {
		return apiPage{}, err
	}
	return page, nil
}

func (p *Provider) logFault(ctx context.Context, op, word string, err error) {
	if errors.Is(err, upstream.ErrNotFound) {
		p.log.DebugContext(ctx, "wiktionary word not found", slog.String("op", op), slog.String("word", word))
		return
	}
	p.log.WarnContext(ctx, "wiktionary lookup failed",
		slog.String("op", op),
		slog.String("word", word),
		slog.String("error", err.Error()),
	)
}

// collect emits one result per non-blank definition across sections, in
// document order. perSection == 0 disables the per-section cap.
func collect(sections []apiSection, word, fallbackLang string, limit, perSection int) []domain.LookupResult {
	results := make([]domain.LookupResult, 0, min(limit, domain.MaxResultsPerLookup))

	for _, section := range sections {
		if len(results) >= limit {
			break
		}
		lang := section.code(fallbackLang)
		taken := 0

	usages:
		for _, usage := range section.Usages {
			for _, def := range usage.Definitions {
				if len(results) >= limit || (perSection > 0 && taken >= perSection) {
					break usages
				}

				text := stripHTML(def.Definition)
				if text == "" {
					continue
				}

				tags := []string{}
				if usage.PartOfSpeech != "" {
					tags = append(tags, usage.PartOfSpeech)
				}

				results = append(results, domain.LookupResult{
					ID:          domain.ResultID(domain.SourceWiktionary, word, len(results)),
					Word:        word,
					Translation: text,
					Language:    lang,
					Tags:        tags,
					Examples:    examples(def.Examples),
					SourceType:  domain.SourceWiktionary,
				})
				taken++
			}
		}
	}

	return results
}

func examples(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, ex := range raw {
		if s := stripHTML(ex); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mapFullEntry groups the section's definitions by part of speech.
func mapFullEntry(section apiSection, word, language string) *domain.FullEntry {
	var groups domain.MeaningGrouper
	for _, usage := range section.Usages {
		defs := make([]domain.Definition, 0, len(usage.Definitions))
		for _, def := range usage.Definitions {
			text := stripHTML(def.Definition)
			if text == "" {
				continue
			}
			example := ""
			if ex := examples(def.Examples); len(ex) > 0 {
				example = ex[0]
			}
			defs = append(defs, domain.Definition{
				Definition: text,
				Example:    example,
				Synonyms:   []string{},
				Antonyms:   []string{},
			})
		}
		if len(defs) > 0 {
			groups.Add(usage.PartOfSpeech, defs...)
		}
	}

	return &domain.FullEntry{
		Word:       word,
		Language:   section.code(language),
		SourceType: domain.SourceWiktionary,
		Meanings:   groups.Meanings(),
	}
}
