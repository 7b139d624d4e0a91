// Package community searches verified community-contributed entries.
// Review workflow state lives in the external store; only rows already
// marked verified are visible here.
package community

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/lexicon/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon/internal/domain"
)

const (
	table          = "community_entries"
	statusVerified = "verified"
)

var columns = append(append([]string{}, postgres.EntryColumns...), "contributor_name")

// Repo provides community entry lookups backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new community entry repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Search returns verified entries matching query, optionally limited to one
// language. Deck scope does not apply to shared entries.
func (r *Repo) Search(ctx context.Context, query, language string, _ domain.LookupOptions) ([]domain.LookupResult, error) {
	normalized := domain.NormalizeWord(query)
	if normalized == "" {
		return []domain.LookupResult{}, nil
	}

	q := postgres.LookupQuery(table, columns, normalized, language).
		Where(sq.Eq{"status": statusVerified})

	rows, err := postgres.SelectEntries(ctx, r.q, q, "community: search")
	if err != nil {
		return nil, err
	}
	return postgres.ToLookupResults(rows, domain.SourceCommunity), nil
}
