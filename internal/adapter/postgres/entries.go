package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// EntryColumns are selected by every store-backed lookup.
var EntryColumns = []string{
	"id", "word", "phonetic", "translation", "language", "notes",
	"tags", "examples", "audio_url",
}

// EntryRow is one stored dictionary entry as returned by a lookup query.
type EntryRow struct {
	ID              uuid.UUID `db:"id"`
	Word            string    `db:"word"`
	Phonetic        string    `db:"phonetic"`
	Translation     string    `db:"translation"`
	Language        string    `db:"language"`
	Notes           string    `db:"notes"`
	Tags            []string  `db:"tags"`
	Examples        []string  `db:"examples"`
	AudioURL        *string   `db:"audio_url"`
	ContributorName string    `db:"contributor_name"`
}

// LookupQuery builds the shared search over an entries table: words starting
// with the query or translations containing it, exact words first, then
// alphabetical, capped at domain.MaxResultsPerLookup.
func LookupQuery(table string, columns []string, normalized, language string) sq.SelectBuilder {
	escaped := EscapeLike(normalized)

	q := Builder().
		Select(columns...).
		From(table).
		Where(sq.Or{
			sq.Like{"word_normalized": escaped + "%"},
			sq.ILike{"translation": "%" + escaped + "%"},
		})

	if language != "" {
		q = q.Where(sq.Eq{"language": language})
	}

	return q.
		OrderByClause("(word_normalized = ?) DESC", normalized).
		OrderBy("word_normalized ASC", "id ASC").
		Limit(domain.MaxResultsPerLookup)
}

// SelectEntries runs query and scans every row.
func SelectEntries(ctx context.Context, q Querier, query sq.SelectBuilder, op string) ([]EntryRow, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, MapError(err, op)
	}

	var rows []EntryRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, MapError(err, op)
	}
	return rows, nil
}

// ToLookupResults maps rows to normalized results tagged with sourceID.
func ToLookupResults(rows []EntryRow, sourceID string) []domain.LookupResult {
	results := make([]domain.LookupResult, 0, len(rows))
	for i, row := range rows {
		results = append(results, domain.LookupResult{
			ID:              domain.ResultID(sourceID, row.Word, i),
			Word:            row.Word,
			Phonetic:        domain.StripSlashes(row.Phonetic),
			Translation:     row.Translation,
			Language:        row.Language,
			Notes:           row.Notes,
			Tags:            row.Tags,
			Examples:        row.Examples,
			AudioURL:        row.AudioURL,
			SourceType:      sourceID,
			ContributorName: row.ContributorName,
		}.Normalized())
	}
	return results
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
