package xfind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/db"
	dbRedis "github.com/kailas-cloud/xfind/internal/db/redis"
	"github.com/kailas-cloud/xfind/internal/domain/document"
	"github.com/kailas-cloud/xfind/internal/repository/searchcache"
	"github.com/kailas-cloud/xfind/internal/transport/solr"
	healthuc "github.com/kailas-cloud/xfind/internal/usecase/health"
	searchuc "github.com/kailas-cloud/xfind/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Minute
)

// Client is the xfind SDK entry point. It is safe for concurrent use;
// builders created from it are not.
type Client struct {
	backend    searchuc.Backend
	store      db.Store // nil without WithRedisCache
	health     *healthuc.Service
	translator Translator
	logger     *zap.Logger
	obs        *observer
	docs       *Index[Document]
}

// New creates a Client. The provided context bounds the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, name, err := createBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	searchPinger := pingerOf(backend)
	var b searchuc.Backend = searchuc.NewInstrumentedBackend(backend, name, logger)

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		store, b, err = createCache(ctx, cfg, b, logger)
		if err != nil {
			return nil, err
		}
	}

	obs, err := newObserver(logger, cfg.metricsReg)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	var cachePinger healthuc.Pinger
	if store != nil {
		cachePinger = store
	}

	c := &Client{
		backend:    b,
		store:      store,
		health:     healthuc.New(searchPinger, cachePinger),
		translator: cfg.translator,
		logger:     logger,
		obs:        obs,
	}

	schema := document.MustSchema(document.DefaultKey, nil)
	if cfg.schema != nil {
		schema = *cfg.schema
	}
	c.docs = newIndex[Document](c, schema, documentIdentity, cfg.indexOpts...)
	return c, nil
}

func createBackend(cfg *clientConfig, logger *zap.Logger) (searchuc.Backend, string, error) {
	if cfg.backend != nil {
		name := cfg.backendName
		if name == "" {
			name = "custom"
		}
		return cfg.backend, name, nil
	}
	if cfg.solrURL == "" {
		return nil, "", errors.New("xfind: search backend required (use WithSolr or WithBackend)")
	}
	sc, err := solr.NewClient(solr.Config{
		BaseURL:    cfg.solrURL,
		Core:       cfg.solrCore,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, "", fmt.Errorf("xfind: create solr client: %w", err)
	}
	return sc, "solr", nil
}

func createCache(
	ctx context.Context, cfg *clientConfig, inner searchuc.Backend, logger *zap.Logger,
) (db.Store, searchuc.Backend, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("xfind: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("xfind: cache not ready: %w", err)
	}
	ttl := cfg.cacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cached, err := searchcache.New(inner, store, ttl, logger)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("xfind: create cache: %w", err)
	}
	return store, cached, nil
}

func closeStore(s db.Store) {
	if s != nil {
		s.Close()
	}
}

// Close releases all resources.
func (c *Client) Close() {
	closeStore(c.store)
}

// Ping checks that the search backend, and the cache if configured, respond.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	report := c.health.Check(ctx)
	if report.Status != healthuc.Healthy {
		return fmt.Errorf("ping: %s: %v", report.Status, report.Checks)
	}
	return nil
}

// Health reports per-component health.
func (c *Client) Health(ctx context.Context) HealthReport {
	return c.health.Check(ctx)
}

// Query starts an untyped query over the client schema.
func (c *Client) Query() *Builder[Document] {
	return c.docs.Query()
}

// Documents returns the untyped index over the client schema.
func (c *Client) Documents() *Index[Document] {
	return c.docs
}

// pingerOf returns b's Ping when it has one.
func pingerOf(b searchuc.Backend) healthuc.Pinger {
	if p, ok := b.(healthuc.Pinger); ok {
		return p
	}
	return noopPinger{}
}

type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }
