package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexicon/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon/internal/adapter/postgres/community"
	"github.com/heartmarshall/lexicon/internal/adapter/postgres/personal"
	"github.com/heartmarshall/lexicon/internal/adapter/postgres/source"
	"github.com/heartmarshall/lexicon/internal/adapter/provider/freedict"
	"github.com/heartmarshall/lexicon/internal/adapter/provider/upstream"
	"github.com/heartmarshall/lexicon/internal/adapter/provider/wiktionary"
	"github.com/heartmarshall/lexicon/internal/auth"
	"github.com/heartmarshall/lexicon/internal/config"
	"github.com/heartmarshall/lexicon/internal/domain"
	"github.com/heartmarshall/lexicon/internal/metrics"
	"github.com/heartmarshall/lexicon/internal/service/constellation"
	"github.com/heartmarshall/lexicon/internal/service/search"
	"github.com/heartmarshall/lexicon/internal/transport/middleware"
	"github.com/heartmarshall/lexicon/internal/transport/rest"
)

const rateLimitCleanup = 5 * time.Minute

// App is the assembled HTTP service.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	search  *search.Service
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New connects the optional database, builds the aggregator and mounts
// every route behind the middleware chain.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	if cfg.Database.Enabled() {
		if cfg.Database.AutoMigrate {
			applied, err := postgres.Migrate(ctx, cfg.Database.DSN)
			if err != nil {
				return nil, fmt.Errorf("app: migrate: %w", err)
			}
			logger.InfoContext(ctx, "migrations applied", slog.Int("count", applied))
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("app: connect database: %w", err)
		}
		a.pool = pool
	} else {
		logger.InfoContext(ctx, "database not configured, store-backed sources disabled")
	}

	var observer search.Observer
	var lookupMetrics *metrics.Lookup
	if cfg.Metrics.Enabled {
		lookupMetrics = metrics.NewLookup()
		observer = lookupMetrics
	}

	a.search = NewSearchService(ctx, cfg, logger, a.pool, observer)

	mux := http.NewServeMux()
	rest.NewLookupHandler(a.search, cfg.Lookup.EnabledSources, logger).Register(mux)
	rest.NewConstellationHandler(a.search, constellation.KeywordClassifier{}, logger).Register(mux)

	// A nil pool must reach the handler as an untyped nil.
	var health *rest.HealthHandler
	if a.pool != nil {
		health = rest.NewHealthHandler(a.pool, a.search, Version)
	} else {
		health = rest.NewHealthHandler(nil, a.search, Version)
	}
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	if lookupMetrics != nil {
		mux.Handle("GET "+cfg.Metrics.Path, lookupMetrics.Handler())
	}

	chain := []middleware.Middleware{
		middleware.RequestID(),
		middleware.ClientIP(cfg.Server.TrustProxy),
		middleware.Recovery(logger),
	}
	if cfg.Auth.Enabled() {
		chain = append(chain, middleware.Auth(auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer), logger))
	}
	chain = append(chain, middleware.Logger(logger), middleware.CORS(cfg.CORS))
	if cfg.RateLimit.RequestsPerMinute > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, rateLimitCleanup)
		chain = append(chain, a.limiter.Middleware())
	}

	a.handler = middleware.Chain(chain...)(mux)
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Search returns the aggregator service.
func (a *App) Search() *search.Service { return a.search }

// Close releases background resources.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port)),
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: listen: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	return nil
}

// NewSearchService assembles the aggregator: registry, upstream adapters,
// store-backed sources when pool is non-nil, and full-entry fetchers.
// observer may be nil.
func NewSearchService(ctx context.Context, cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, observer search.Observer) *search.Service {
	registry := search.NewRegistry(logger)
	dispatcher := search.NewDispatcher(logger)
	full := search.NewFullFetchers(cfg.Lookup.FullEntryCacheSize, cfg.Lookup.FullEntryCacheTTL, logger)

	opts := upstream.Options{
		Timeout:    cfg.Lookup.UpstreamTimeout,
		RetryDelay: cfg.Lookup.RetryDelay,
		UserAgent:  UserAgent(),
	}
	fd := freedict.NewProvider(cfg.Lookup.FreeDictionaryURL, opts, logger)
	wk := wiktionary.NewProvider(cfg.Lookup.WiktionaryURL, opts, logger)

	dispatcher.Register(domain.SourceFreeDictionary, fd)
	dispatcher.Register(domain.SourceWiktionary, wk)
	full.Register(domain.SourceFreeDictionary, fd)
	full.Register(domain.SourceWiktionary, wk)

	stores := map[string]search.Searcher{}
	if pool != nil {
		stores[domain.SourcePersonal] = personal.New(pool)
		stores[domain.SourceCommunity] = community.New(pool)
		if cfg.Lookup.RemoteRegistry {
			registry.Refresh(ctx, source.New(pool))
		}
	}

	return search.NewService(logger, search.Deps{
		Registry:   registry,
		Dispatcher: dispatcher,
		Stores:     stores,
		Observer:   observer,
	}, full, cfg.Lookup.SessionCacheSize, cfg.Lookup.SessionTTL)
}

// Run is the server entry point: it loads configuration, serves until
// SIGINT or SIGTERM and shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}
