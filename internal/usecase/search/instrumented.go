package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/domain/search/query"
	"github.com/kailas-cloud/xfind/internal/domain/search/result"
	"github.com/kailas-cloud/xfind/internal/metrics"
)

// InstrumentedBackend wraps a Backend with request metrics and logging.
type InstrumentedBackend struct {
	inner  Backend
	name   string
	logger *zap.Logger
}

// NewInstrumentedBackend wraps inner. name labels the metrics ("solr").
func NewInstrumentedBackend(inner Backend, name string, logger *zap.Logger) *InstrumentedBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedBackend{inner: inner, name: name, logger: logger}
}

// Execute delegates to the inner backend and records the outcome.
func (b *InstrumentedBackend) Execute(ctx context.Context, q *query.Query) (*result.Raw, error) {
	start := time.Now()
	raw, err := b.inner.Execute(ctx, q)
	duration := time.Since(start)

	metrics.SearchRequestDuration.WithLabelValues(b.name).Observe(duration.Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(b.name, "error").Inc()
		b.logger.Warn("Backend request failed",
			zap.String("backend", b.name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(b.name, "ok").Inc()

	b.logger.Debug("Backend request completed",
		zap.String("backend", b.name),
		zap.Duration("duration", duration),
		zap.Int("num_found", raw.NumFound),
		zap.Int("docs", len(raw.Docs)),
	)
	return raw, nil
}
