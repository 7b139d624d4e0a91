//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexicon/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/lexicon/internal/app"
	"github.com/heartmarshall/lexicon/internal/auth"
	"github.com/heartmarshall/lexicon/internal/config"
)

const (
	jwtSecret = "test-secret-at-least-32-chars-long!!"
	jwtIssuer = "test-issuer"
)

const freeDictCat = `[{
	"word": "cat",
	"phonetic": "/kæt/",
	"meanings": [{"partOfSpeech": "noun", "definitions": [
		{"definition": "A small domesticated carnivorous mammal.", "example": "The cat sat on the mat."}
	]}]
}]`

const wiktionaryCat = `{
	"en": [{"partOfSpeech": "Noun", "language": "English", "definitions": [
		{"definition": "<span>A <a href=\"/wiki/mammal\">mammal</a> of the family <i>Felidae</i>.</span>", "examples": []}
	]}]
}`

// testServer is the full application stack on an httptest server, backed
// by the shared PostgreSQL container and a fake dictionary upstream.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool

	verifier      *auth.Verifier
	upstreamCalls atomic.Int64
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the application exactly as the server binary
// does. mutate may adjust the configuration before the app is built.
func setupTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	dsn := testhelper.SetupTestDSN(t)
	ts := &testServer{
		Pool:     testhelper.SetupTestDB(t),
		verifier: auth.NewVerifier(jwtSecret, jwtIssuer),
	}

	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.upstreamCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/entries/en/cat":
			io.WriteString(w, freeDictCat)
		case "/page/definition/cat":
			io.WriteString(w, wiktionaryCat)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstreamSrv.Close)

	cfg := &config.Config{
		Server:   config.ServerConfig{ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{DSN: dsn, MaxConns: 4, MinConns: 1, MaxConnLifetime: time.Hour, MaxConnIdleTime: time.Minute},
		Auth:     config.AuthConfig{JWTSecret: jwtSecret, JWTIssuer: jwtIssuer},
		Lookup: config.LookupConfig{
			FreeDictionaryURL:  upstreamSrv.URL,
			WiktionaryURL:      upstreamSrv.URL,
			UpstreamTimeout:    5 * time.Second,
			SessionCacheSize:   64,
			SessionTTL:         time.Minute,
			FullEntryCacheSize: 64,
			FullEntryCacheTTL:  time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type,X-Search-Session",
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	a, err := app.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	ts.URL = srv.URL
	ts.Client = srv.Client()
	return ts
}

// tokenFor issues a bearer token for a fresh or given user.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := ts.verifier.Issue(userID, 15*time.Minute)
	require.NoError(t, err)
	return token
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (ts *testServer) do(t *testing.T, method, path, token string, header http.Header, body string, out any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "response body should be valid JSON")
	}
	return resp
}

type searchBody struct {
	Snapshot struct {
		Query  string   `json:"query"`
		Active []string `json:"active"`
	} `json:"snapshot"`
	Results []struct {
		ID          string `json:"id"`
		Word        string `json:"word"`
		Translation string `json:"translation"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
	Stale bool `json:"stale"`
}

// uniqueWord returns a word no other test seeds.
func uniqueWord(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
}
