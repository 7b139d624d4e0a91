package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/lexicon"
  max_conns: 4

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "identity"

lookup:
  free_dictionary_url: "http://freedict.local/api/v2"
  wiktionary_url: "http://wiktionary.local/api/rest_v1"
  upstream_timeout: "3s"
  retry_delay: "250ms"
  enabled_sources: "personal, freeDictionary ,,wiktionary"
  session_cache_size: 16
  full_entry_cache_size: 8

log:
  level: "debug"
  format: "text"

rate_limit:
  requests_per_minute: 30
  burst: 5
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeYAML(t, dir, validYAML))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %s:%d, want 127.0.0.1:9090", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	// Unset values fall back to env-default tags.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("server.write_timeout = %v, want 30s", cfg.Server.WriteTimeout)
	}
	if !cfg.Database.Enabled() {
		t.Error("database should be enabled when dsn is set")
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("database.max_conns = %d, want 4", cfg.Database.MaxConns)
	}
	if !cfg.Auth.Enabled() || cfg.Auth.JWTIssuer != "identity" {
		t.Errorf("auth = %+v, want enabled with issuer identity", cfg.Auth)
	}
	if cfg.Lookup.UpstreamTimeout != 3*time.Second {
		t.Errorf("lookup.upstream_timeout = %v, want 3s", cfg.Lookup.UpstreamTimeout)
	}
	if cfg.Lookup.RetryDelay != 250*time.Millisecond {
		t.Errorf("lookup.retry_delay = %v, want 250ms", cfg.Lookup.RetryDelay)
	}
	if !cfg.Lookup.RemoteRegistry {
		t.Error("lookup.remote_registry should default to true")
	}
	want := []string{"personal", "freeDictionary", "wiktionary"}
	if len(cfg.Lookup.EnabledSources) != len(want) {
		t.Fatalf("lookup.enabled_sources = %v, want %v", cfg.Lookup.EnabledSources, want)
	}
	for i := range want {
		if cfg.Lookup.EnabledSources[i] != want[i] {
			t.Errorf("enabled_sources[%d] = %q, want %q", i, cfg.Lookup.EnabledSources[i], want[i])
		}
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.RateLimit.RequestsPerMinute != 30 || cfg.RateLimit.Burst != 5 {
		t.Errorf("rate_limit = %+v", cfg.RateLimit)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v, want enabled on /metrics", cfg.Metrics)
	}
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Enabled() {
		t.Error("database should be disabled without a dsn")
	}
	if cfg.Auth.Enabled() {
		t.Error("auth should be disabled without a secret")
	}
	if cfg.Lookup.FreeDictionaryURL != "https://api.dictionaryapi.dev/api/v2" {
		t.Errorf("free_dictionary_url = %q", cfg.Lookup.FreeDictionaryURL)
	}
	if cfg.Lookup.EnabledSources != nil {
		t.Errorf("enabled_sources = %v, want nil", cfg.Lookup.EnabledSources)
	}
	if cfg.Lookup.RetryDelay != 500*time.Millisecond {
		t.Errorf("retry_delay = %v, want 500ms", cfg.Lookup.RetryDelay)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeYAML(t, dir, validYAML))
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOOKUP_ENABLED_SOURCES", "community")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070", cfg.Server.Port)
	}
	if len(cfg.Lookup.EnabledSources) != 1 || cfg.Lookup.EnabledSources[0] != "community" {
		t.Errorf("enabled_sources = %v, want [community]", cfg.Lookup.EnabledSources)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Lookup: LookupConfig{
				FreeDictionaryURL:  "http://a",
				WiktionaryURL:      "http://b",
				UpstreamTimeout:    time.Second,
				SessionCacheSize:   1,
				FullEntryCacheSize: 1,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "missing free dictionary url", mutate: func(c *Config) { c.Lookup.FreeDictionaryURL = "" }, wantErr: true},
		{name: "missing wiktionary url", mutate: func(c *Config) { c.Lookup.WiktionaryURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Lookup.UpstreamTimeout = 0 }, wantErr: true},
		{name: "negative retry delay", mutate: func(c *Config) { c.Lookup.RetryDelay = -time.Second }, wantErr: true},
		{name: "zero session cache", mutate: func(c *Config) { c.Lookup.SessionCacheSize = 0 }, wantErr: true},
		{name: "zero entry cache", mutate: func(c *Config) { c.Lookup.FullEntryCacheSize = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{",a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := ParseList(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseList(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}
