package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Lookup.validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	return nil
}

func (l *LookupConfig) validate() error {
	if l.FreeDictionaryURL == "" {
		return fmt.Errorf("free_dictionary_url is required")
	}
	if l.WiktionaryURL == "" {
		return fmt.Errorf("wiktionary_url is required")
	}
	if l.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream_timeout must be > 0 (got %v)", l.UpstreamTimeout)
	}
	if l.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0 (got %v)", l.RetryDelay)
	}
	if l.SessionCacheSize <= 0 {
		return fmt.Errorf("session_cache_size must be > 0 (got %d)", l.SessionCacheSize)
	}
	if l.FullEntryCacheSize <= 0 {
		return fmt.Errorf("full_entry_cache_size must be > 0 (got %d)", l.FullEntryCacheSize)
	}

	l.EnabledSources = ParseList(l.EnabledSourcesRaw)
	return nil
}

// ParseList splits a comma-separated list, trimming blanks and dropping
// empty items. An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
