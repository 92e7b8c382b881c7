package xfind

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	solrURL    string
	solrCore   string
	timeout    time.Duration
	httpClient *http.Client

	backend     Backend
	backendName string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	translator Translator
	schema     *Schema
	indexOpts  []IndexOption

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithSolr sets the Solr endpoint: base URL (e.g. http://localhost:8983/solr)
// and core name.
func WithSolr(baseURL, core string) Option {
	return optionFunc(func(c *clientConfig) {
		c.solrURL = baseURL
		c.solrCore = core
	})
}

// WithTimeout bounds a single Solr request. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient sets the HTTP client used for Solr requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithBackend replaces the Solr transport with a custom backend.
// If b also implements Ping(ctx) error, it is used for health checks.
func WithBackend(name string, b Backend) Option {
	return optionFunc(func(c *clientConfig) {
		c.backendName = name
		c.backend = b
	})
}

// WithRedisCache caches raw responses in Redis for ttl (one minute when ttl <= 0).
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithTranslator sets the facet label translator. Default: labels equal keys.
func WithTranslator(t Translator) Option {
	return optionFunc(func(c *clientConfig) {
		c.translator = t
	})
}

// WithSchema sets the schema used by Client.Query.
// Without it every returned field lands in Document.Extra.
func WithSchema(s Schema, opts ...IndexOption) Option {
	return optionFunc(func(c *clientConfig) {
		c.schema = &s
		c.indexOpts = opts
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
