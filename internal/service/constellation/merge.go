// Package constellation folds search results into a vocabulary set for the
// semantic-domain visualization.
package constellation

import (
	"slices"

	"github.com/heartmarshall/lexicon/internal/domain"
	"github.com/heartmarshall/lexicon/internal/service/search"
)

// ExternalIDPrefix starts the id of every item synthesized from a search result.
const ExternalIDPrefix = "ext:"

// VocabularyItem is one star of the constellation.
type VocabularyItem struct {
	ID          string `json:"id"`
	Word        string `json:"word"`
	Translation string `json:"translation"`
	Domain      Domain `json:"domain,omitempty"`

	// Set on items synthesized from search results.
	FromSearch bool    `json:"from_search"`
	Confidence float64 `json:"confidence,omitempty"`
	SourceID   string  `json:"source_id,omitempty"`

	// Detail is the search result attached to an existing item.
	Detail *search.RankedResult `json:"detail,omitempty"`
}

// MergeResult is the outcome of Merge.
type MergeResult struct {
	// Highlighted holds the ids of base items matched by a result, in match order.
	Highlighted []string         `json:"highlighted"`
	Items       []VocabularyItem `json:"items"`
}

// Merge matches results against base by normalized word. A matched item is
// highlighted and gets the first matching result attached. Unmatched results
// are deduplicated by normalized word, classified by their translation and
// appended as new items. base is neither modified nor reordered, and merging
// the output again with the same results changes nothing.
func Merge(base []VocabularyItem, results []search.RankedResult, classifier Classifier) MergeResult {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}

	items := slices.Clone(base)
	if items == nil {
		items = []VocabularyItem{}
	}

	index := make(map[string]int, len(items))
	for i, it := range items {
		key := domain.NormalizeWord(it.Word)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	highlighted := []string{}
	attached := make(map[int]bool)

	for _, r := range results {
		key := domain.NormalizeWord(r.Word)
		if key == "" {
			continue
		}

		if i, ok := index[key]; ok {
			// Items synthesized by an earlier merge absorb repeats silently.
			if items[i].FromSearch {
				continue
			}
			if !attached[i] {
				attached[i] = true
				highlighted = append(highlighted, items[i].ID)
				detail := r
				items[i].Detail = &detail
			}
			continue
		}

		verdict := classifier.Classify(r.Translation)
		items = append(items, VocabularyItem{
			ID:          ExternalIDPrefix + key,
			Word:        r.Word,
			Translation: r.Translation,
			Domain:      verdict.Domain,
			FromSearch:  true,
			Confidence:  verdict.Confidence,
			SourceID:    r.SourceID,
		})
		index[key] = len(items) - 1
	}

	return MergeResult{Highlighted: highlighted, Items: items}
}
