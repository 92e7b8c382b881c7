package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/config"
	"github.com/kailas-cloud/xfind/internal/db"
	dbRedis "github.com/kailas-cloud/xfind/internal/db/redis"
	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/i18n"
	logpkg "github.com/kailas-cloud/xfind/internal/logger"
	"github.com/kailas-cloud/xfind/internal/metrics"
	"github.com/kailas-cloud/xfind/internal/repository/searchcache"
	chiTransport "github.com/kailas-cloud/xfind/internal/transport/chi"
	"github.com/kailas-cloud/xfind/internal/transport/solr"
	healthuc "github.com/kailas-cloud/xfind/internal/usecase/health"
	searchuc "github.com/kailas-cloud/xfind/internal/usecase/search"
	"github.com/kailas-cloud/xfind/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting xfind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_url", cfg.Solr.BaseURL),
		zap.String("solr_core", cfg.Solr.Core),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Backend chain: Solr -> Instrumented -> Cached
	solrClient, err := solr.NewClient(solr.Config{
		BaseURL: cfg.Solr.BaseURL,
		Core:    cfg.Solr.Core,
		Timeout: time.Duration(cfg.Solr.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create solr client", zap.Error(err))
	}
	var backend searchuc.Backend = searchuc.NewInstrumentedBackend(solrClient, "solr", logger)

	// Pass nil interface (not typed nil pointer) when the cache is off.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		store := openCache(ctx, cfg.Cache, logger)
		defer store.Close()
		cachePinger = store

		backend, err = searchcache.New(backend, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, logger,
			searchcache.WithKeyPrefix(cfg.Cache.KeyPrefix),
			searchcache.WithCounter(metrics.SearchCacheTotal),
		)
		if err != nil {
			logger.Fatal("Failed to create search cache", zap.Error(err))
		}
	}

	catalog := openCatalog(ctx, cfg.I18n, logger)

	schema, err := cfg.Schema.Build()
	if err != nil {
		logger.Fatal("Invalid schema", zap.Error(err))
	}
	model := document.NewModel(schema, cfg.Schema.ModelOptions()...)

	// Create use case services
	searchSvc := searchuc.New(backend, searchuc.NewNormalizer(model, catalog), logger)
	healthSvc := healthuc.New(solrClient, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Options{
		Schema:         schema,
		FacetDefaults:  cfg.Schema.FacetDefaults,
		DefaultPerPage: cfg.Search.DefaultPerPage,
		MaxPerPage:     cfg.Search.MaxPerPage,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openCache connects to Redis and waits until it answers.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache", zap.Strings("addrs", cfg.Addrs))
	return store
}

// openCatalog loads facet label translations and starts the file watcher.
func openCatalog(ctx context.Context, cfg config.I18nConfig, logger *zap.Logger) *i18n.Catalog {
	catalog, err := i18n.New(i18n.Config{
		Path:      cfg.TranslationsFile,
		Language:  cfg.Language,
		Namespace: cfg.Namespace,
		Humanize:  cfg.Humanize,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}
	if cfg.Watch && cfg.TranslationsFile != "" {
		go func() {
			if err := catalog.Watch(ctx); err != nil {
				logger.Warn("Translation watcher stopped", zap.Error(err))
			}
		}()
	}
	return catalog
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
