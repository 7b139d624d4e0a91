// Package source loads the remote lookup source registry.
package source

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/lexicon/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon/internal/domain"
)

type row struct {
	ID                 string   `db:"id"`
	DisplayName        string   `db:"display_name"`
	ShortName          string   `db:"short_name"`
	ColorHint          string   `db:"color_hint"`
	IsBuiltIn          bool     `db:"is_built_in"`
	EnabledByDefault   bool     `db:"enabled_by_default"`
	SupportedLanguages []string `db:"supported_languages"`
}

// Repo reads the lookup_sources table.
type Repo struct {
	q postgres.Querier
}

// New creates a new source registry repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ListSources returns every configured source in display order.
// An empty supported_languages array means the source accepts all languages.
func (r *Repo) ListSources(ctx context.Context) ([]domain.SourceDescriptor, error) {
	sql, args, err := postgres.Builder().
		Select("id", "display_name", "short_name", "color_hint", "is_built_in",
			"enabled_by_default", "supported_languages").
		From("lookup_sources").
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "sources: list")
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "sources: list")
	}

	out := make([]domain.SourceDescriptor, 0, len(rows))
	for _, rw := range rows {
		out = append(out, domain.SourceDescriptor{
			ID:                 rw.ID,
			DisplayName:        rw.DisplayName,
			ShortName:          rw.ShortName,
			ColorHint:          rw.ColorHint,
			IsBuiltIn:          rw.IsBuiltIn,
			EnabledByDefault:   rw.EnabledByDefault,
			SupportedLanguages: domain.LanguageSet(rw.SupportedLanguages),
		})
	}
	return out, nil
}
