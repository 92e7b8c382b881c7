// Package searchcache caches raw search responses in a key-value store.
package searchcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/db"
	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
)

// DefaultKeyPrefix namespaces cache entries.
const DefaultKeyPrefix = "xfind:search:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// backend mirrors search.Backend to avoid an import cycle with the usecase.
type backend interface {
	Execute(ctx context.Context, q *query.Query) (*result.Raw, error)
}

// CachedBackend serves repeated queries from the cache. Cache failures are
// logged and bypassed; backend errors are never cached.
type CachedBackend struct {
	inner      backend
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Option configures a CachedBackend.
type Option func(*CachedBackend)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(p string) Option {
	return func(c *CachedBackend) { c.prefix = p }
}

// WithCounter sets the counter vec with label "result" ("hit"/"miss"/"error").
func WithCounter(cv *prometheus.CounterVec) Option {
	return func(c *CachedBackend) { c.cacheTotal = cv }
}

// New creates a caching decorator.
func New(inner backend, s store, ttl time.Duration, logger *zap.Logger, opts ...Option) (*CachedBackend, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CachedBackend{
		inner:  inner,
		store:  s,
		ttl:    ttl,
		prefix: DefaultKeyPrefix,
		logger: logger,
		enc:    enc,
		dec:    dec,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Execute returns a cached response or calls the inner backend.
func (c *CachedBackend) Execute(ctx context.Context, q *query.Query) (*result.Raw, error) {
	key := c.Key(q)

	if raw, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return raw, nil
	}
	c.incCache("miss")

	raw, err := c.inner.Execute(ctx, q)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, raw)
	return raw, nil
}

// Key returns the cache key of q.
func (c *CachedBackend) Key(q *query.Query) string {
	h := sha256.Sum256([]byte(q.String()))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedBackend) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedBackend) getFromCache(ctx context.Context, key string) (*result.Raw, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("error")
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	raw, err := c.decode(data)
	if err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to decode cached response", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

func (c *CachedBackend) putToCache(ctx context.Context, key string, raw *result.Raw) {
	data, err := c.encode(raw)
	if err != nil {
		c.logger.Warn("Failed to encode response", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedBackend) encode(raw *result.Raw) ([]byte, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return c.enc.EncodeAll(b, nil), nil
}

func (c *CachedBackend) decode(data []byte) (*result.Raw, error) {
	b, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	// Numbers stay json.Number, exactly as the engine transport decodes them.
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	var raw result.Raw
	if err := d.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &raw, nil
}
