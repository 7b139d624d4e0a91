package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// PersonalEntry describes a row to insert into personal_entries.
type PersonalEntry struct {
	UserID      uuid.UUID
	DeckID      *uuid.UUID
	Word        string
	Translation string
	Language    string
	Tags        []string
}

// SeedPersonalEntry inserts one personal entry and returns its id.
func SeedPersonalEntry(t *testing.T, pool *pgxpool.Pool, e PersonalEntry) uuid.UUID {
	t.Helper()

	if e.Tags == nil {
		e.Tags = []string{}
	}

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO personal_entries (user_id, deck_id, word, word_normalized, translation, language, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		e.UserID, e.DeckID, e.Word, domain.NormalizeWord(e.Word), e.Translation, e.Language, e.Tags,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: seed personal entry: %v", err)
	}
	return id
}

// CommunityEntry describes a row to insert into community_entries.
type CommunityEntry struct {
	Word            string
	Translation     string
	Language        string
	ContributorName string
	Status          string
}

// SeedCommunityEntry inserts one community entry and returns its id.
func SeedCommunityEntry(t *testing.T, pool *pgxpool.Pool, e CommunityEntry) uuid.UUID {
	t.Helper()

	if e.Status == "" {
		e.Status = "verified"
	}

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO community_entries (word, word_normalized, translation, language, contributor_name, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		e.Word, domain.NormalizeWord(e.Word), e.Translation, e.Language, e.ContributorName, e.Status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: seed community entry: %v", err)
	}
	return id
}

// SeedSource inserts or replaces one lookup_sources row.
func SeedSource(t *testing.T, pool *pgxpool.Pool, s domain.SourceDescriptor, position int) {
	t.Helper()

	langs := []string(s.SupportedLanguages)
	if langs == nil {
		langs = []string{}
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO lookup_sources (id, display_name, short_name, color_hint, is_built_in, enabled_by_default, supported_languages, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   display_name = EXCLUDED.display_name,
		   short_name = EXCLUDED.short_name,
		   color_hint = EXCLUDED.color_hint,
		   is_built_in = EXCLUDED.is_built_in,
		   enabled_by_default = EXCLUDED.enabled_by_default,
		   supported_languages = EXCLUDED.supported_languages,
		   position = EXCLUDED.position`,
		s.ID, s.DisplayName, s.ShortName, s.ColorHint, s.IsBuiltIn, s.EnabledByDefault, langs, position,
	)
	if err != nil {
		t.Fatalf("testhelper: seed source: %v", err)
	}
}
