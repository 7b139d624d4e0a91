package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxResultsPerLookup caps a single adapter call.
const MaxResultsPerLookup = 5

// LookupResult is the normalized record every source adapter produces,
// regardless of the upstream format. Optional upstream fields map to an
// empty string, an empty list or a nil AudioURL; nothing is omitted on the wire.
type LookupResult struct {
	ID              string   `json:"id"`
	Word            string   `json:"word"`
	Phonetic        string   `json:"phonetic"`
	Translation     string   `json:"translation"`
	Language        string   `json:"language"`
	Notes           string   `json:"notes"`
	Tags            []string `json:"tags"`
	Examples        []string `json:"examples"`
	AudioURL        *string  `json:"audio_url"`
	SourceType      string   `json:"source_type"`
	ContributorName string   `json:"contributor_name"`
}

// ResultID builds the conventional "sourceId:word:index" identifier.
func ResultID(sourceID, word string, index int) string {
	return fmt.Sprintf("%s:%s:%d", sourceID, word, index)
}

// Normalized returns a copy with nil lists replaced by empty ones.
func (r LookupResult) Normalized() LookupResult {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Examples == nil {
		r.Examples = []string{}
	}
	return r
}

// FullEntry is the complete hierarchical definition set of a word in one source.
type FullEntry struct {
	Word            string    `json:"word"`
	Phonetic        string    `json:"phonetic"`
	AudioURL        *string   `json:"audio_url"`
	Language        string    `json:"language"`
	SourceType      string    `json:"source_type"`
	ContributorName string    `json:"contributor_name"`
	Meanings        []Meaning `json:"meanings"`
}

// Meaning groups definitions sharing a part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"part_of_speech"`
	Definitions  []Definition `json:"definitions"`
}

// Definition is one sense inside a Meaning.
type Definition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
	Antonyms   []string `json:"antonyms"`
}

// MeaningGrouper merges definitions into meanings keyed by part of speech,
// keeping groups in first-seen order.
type MeaningGrouper struct {
	index    map[string]int
	meanings []Meaning
}

// Add appends defs to the group for pos, creating it if needed.
func (g *MeaningGrouper) Add(pos string, defs ...Definition) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	idx, ok := g.index[pos]
	if !ok {
		idx = len(g.meanings)
		g.index[pos] = idx
		g.meanings = append(g.meanings, Meaning{PartOfSpeech: pos, Definitions: []Definition{}})
	}
	g.meanings[idx].Definitions = append(g.meanings[idx].Definitions, defs...)
}

// Meanings returns the grouped meanings, never nil.
func (g *MeaningGrouper) Meanings() []Meaning {
	if g.meanings == nil {
		return []Meaning{}
	}
	return g.meanings
}

// LookupOptions carries per-call context that some sources need: the
// personal store scopes by user and optionally by deck.
type LookupOptions struct {
	UserID uuid.UUID
	DeckID *uuid.UUID
}
