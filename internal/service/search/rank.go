package search

import (
	"slices"
	"strings"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// RankedResult is a result tagged with the source it came from.
type RankedResult struct {
	domain.LookupResult
	SourceID string `json:"source_id"`
}

// sourcePriority ranks the two internal stores ahead of everything else,
// which shares the lowest tier.
func sourcePriority(id string) int {
	switch id {
	case domain.SourcePersonal:
		return 0
	case domain.SourceCommunity:
		return 1
	default:
		return 2
	}
}

// Rank flattens the snapshot's per-source lists, in active-source order, and
// sorts them stably: exact case-insensitive matches of query first, then by
// source priority, then by word.
func Rank(query string, snap *Snapshot) []RankedResult {
	if snap == nil {
		return []RankedResult{}
	}

	out := make([]RankedResult, 0, snap.Total())
	for _, id := range snap.Active {
		for _, r := range snap.ResultsBySource[id] {
			out = append(out, RankedResult{LookupResult: r, SourceID: id})
		}
	}

	q := domain.NormalizeWord(query)
	exact := func(r RankedResult) int {
		if domain.NormalizeWord(r.Word) == q {
			return 0
		}
		return 1
	}

	slices.SortStableFunc(out, func(a, b RankedResult) int {
		if c := exact(a) - exact(b); c != 0 {
			return c
		}
		if c := sourcePriority(a.SourceID) - sourcePriority(b.SourceID); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word)); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	return out
}
