package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexicon/internal/domain"
)

func newTestService(t *testing.T, full *FullFetchers) (*Service, *searcherMock) {
	t.Helper()

	store := &searcherMock{SearchFunc: func(_ context.Context, q, _ string, _ domain.LookupOptions) ([]domain.LookupResult, error) {
		return results(domain.SourcePersonal, q), nil
	}}
	dispatcher := NewDispatcher(newTestLogger())
	dispatcher.Register(domain.SourceWiktionary, staticAdapter(results(domain.SourceWiktionary, "cat", "catalog")))

	if full == nil {
		full = NewFullFetchers(8, time.Minute, newTestLogger())
	}
	svc := NewService(newTestLogger(), Deps{
		Registry:   NewRegistry(newTestLogger()),
		Dispatcher: dispatcher,
		Stores:     map[string]Searcher{domain.SourcePersonal: store},
	}, full, 16, time.Minute)
	return svc, store
}

func TestService_Sources(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)

	all := svc.Sources("")
	require.Len(t, all, 4)
	assert.Equal(t, domain.SourcePersonal, all[0].ID)
	assert.Equal(t, svc.registry.Style(domain.SourcePersonal), all[0].Style)

	es := svc.Sources("es")
	for _, s := range es {
		assert.NotEqual(t, domain.SourceFreeDictionary, s.ID, "freeDictionary is English only")
	}
}

func TestService_SearchRanksAcrossSources(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)

	res := svc.Search(context.Background(), "", "cat", SearchOptions{
		Enabled: []string{domain.SourcePersonal, domain.SourceWiktionary},
	})

	require.False(t, res.Stale)
	require.Len(t, res.Ranked, 3)
	assert.Equal(t, domain.SourcePersonal, res.Ranked[0].SourceID)
	assert.Equal(t, domain.SourceWiktionary, res.Ranked[1].SourceID)
	assert.Equal(t, "catalog", res.Ranked[2].Word)
}

func TestService_SessionsKeepStateUntilCleared(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	opts := SearchOptions{Enabled: []string{domain.SourcePersonal}}

	svc.Search(context.Background(), "alice", "cat", opts)
	svc.Search(context.Background(), "bob", "dog", opts)

	alice := svc.Session("alice")
	assert.Equal(t, "cat", alice.Snapshot.Query)
	require.Len(t, alice.Ranked, 1)
	assert.Equal(t, "cat", alice.Ranked[0].Word)
	assert.Equal(t, "dog", svc.Session("bob").Snapshot.Query)

	cleared := svc.Clear("alice")
	assert.Zero(t, cleared.Snapshot.Total())
	assert.Empty(t, svc.Session("alice").Ranked)
	assert.Equal(t, "dog", svc.Session("bob").Snapshot.Query, "clearing one session leaves others alone")
}

func TestService_UnknownSessionIsEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)

	assert.Zero(t, svc.Session("nobody").Snapshot.Total())
	assert.NotNil(t, svc.Clear("nobody").Ranked)
	assert.Zero(t, svc.sessions.Len(), "reads never create sessions")
}

func TestService_EphemeralSearchKeepsNoSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	svc.Search(context.Background(), "", "cat", SearchOptions{})

	assert.Zero(t, svc.sessions.Len())
}

func TestService_FetchFull(t *testing.T) {
	t.Parallel()

	full := NewFullFetchers(8, time.Minute, newTestLogger())
	full.Register(domain.SourceWiktionary, &fullFetcherMock{FetchFullFunc: func(_ context.Context, word, _ string) (*domain.FullEntry, error) {
		if word == "cat" {
			return &domain.FullEntry{Word: "cat", SourceType: domain.SourceWiktionary}, nil
		}
		return nil, nil
	}})
	svc, _ := newTestService(t, full)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		entry, err := svc.FetchFull(context.Background(), domain.SourceWiktionary, "cat", "en")
		require.NoError(t, err)
		assert.Equal(t, "cat", entry.Word)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Parallel()
		_, err := svc.FetchFull(context.Background(), domain.SourceWiktionary, "zzzz", "en")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("source without full variant", func(t *testing.T) {
		t.Parallel()
		_, err := svc.FetchFull(context.Background(), domain.SourcePersonal, "cat", "en")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank word", func(t *testing.T) {
		t.Parallel()
		_, err := svc.FetchFull(context.Background(), domain.SourceWiktionary, "  ", "en")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
