package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// TrustProxy takes the client address from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy" env:"SERVER_TRUST_PROXY" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN disables
// the store-backed sources (personal, community) and the remote registry.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return strings.TrimSpace(c.DSN) != "" }

// AuthConfig holds settings for verifying bearer tokens issued by the
// identity provider. An empty secret disables verification (anonymous only).
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"lexicon"`
}

// Enabled reports whether bearer token verification is configured.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }

// LookupConfig holds the dictionary aggregator settings.
type LookupConfig struct {
	FreeDictionaryURL  string        `yaml:"free_dictionary_url"   env:"LOOKUP_FREE_DICTIONARY_URL"   env-default:"https://api.dictionaryapi.dev/api/v2"`
	WiktionaryURL      string        `yaml:"wiktionary_url"        env:"LOOKUP_WIKTIONARY_URL"        env-default:"https://en.wiktionary.org/api/rest_v1"`
	UpstreamTimeout    time.Duration `yaml:"upstream_timeout"      env:"LOOKUP_UPSTREAM_TIMEOUT"      env-default:"10s"`
	RetryDelay         time.Duration `yaml:"retry_delay"           env:"LOOKUP_RETRY_DELAY"           env-default:"500ms"`
	EnabledSourcesRaw  string        `yaml:"enabled_sources"       env:"LOOKUP_ENABLED_SOURCES"`
	RemoteRegistry     bool          `yaml:"remote_registry"       env:"LOOKUP_REMOTE_REGISTRY"       env-default:"true"`
	SessionCacheSize   int           `yaml:"session_cache_size"    env:"LOOKUP_SESSION_CACHE_SIZE"    env-default:"1024"`
	SessionTTL         time.Duration `yaml:"session_ttl"           env:"LOOKUP_SESSION_TTL"           env-default:"30m"`
	FullEntryCacheSize int           `yaml:"full_entry_cache_size" env:"LOOKUP_FULL_ENTRY_CACHE_SIZE" env-default:"512"`
	FullEntryCacheTTL  time.Duration `yaml:"full_entry_cache_ttl"  env:"LOOKUP_FULL_ENTRY_CACHE_TTL"  env-default:"1h"`

	// EnabledSources is parsed from EnabledSourcesRaw during validation.
	// Empty means "every source enabled by default in the registry".
	EnabledSources []string `yaml:"-" env:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Search-Session"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig limits search traffic per client, since every search fans
// out to the public dictionary APIs.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"   env-default:"120"`
	Burst             int `yaml:"burst"               env:"RATE_LIMIT_BURST" env-default:"20"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
