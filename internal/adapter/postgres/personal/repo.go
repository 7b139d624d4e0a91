// Package personal searches the caller's own vocabulary entries.
package personal

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/lexicon/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon/internal/domain"
)

const table = "personal_entries"

// Repo provides personal entry lookups backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new personal entry repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Search returns the user's entries matching query, optionally limited to
// one language and one deck. Without a user there is nothing to search.
func (r *Repo) Search(ctx context.Context, query, language string, opts domain.LookupOptions) ([]domain.LookupResult, error) {
	normalized := domain.NormalizeWord(query)
	if normalized == "" || opts.UserID == uuid.Nil {
		return []domain.LookupResult{}, nil
	}

	q := postgres.LookupQuery(table, postgres.EntryColumns, normalized, language).
		Where(sq.Eq{"user_id": opts.UserID})
	if opts.DeckID != nil {
		q = q.Where(sq.Eq{"deck_id": *opts.DeckID})
	}

	rows, err := postgres.SelectEntries(ctx, r.q, q, "personal: search")
	if err != nil {
		return nil, err
	}
	return postgres.ToLookupResults(rows, domain.SourcePersonal), nil
}
