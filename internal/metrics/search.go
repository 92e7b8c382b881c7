package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xfind",
			Name:      "search_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"backend", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "xfind",
			Name:      "search_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xfind",
			Name:      "search_cache_total",
			Help:      "Search response cache hits, misses and errors",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	TranslationReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xfind",
			Name:      "translation_reloads_total",
			Help:      "Facet label catalog reloads",
		},
		[]string{"status"},
	)
)

var registerSearch sync.Once

// RegisterSearchMetrics registers search metrics with the default registry.
// Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearch.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchRequestDuration)
		prometheus.MustRegister(SearchCacheTotal)
		prometheus.MustRegister(TranslationReloadsTotal)
	})
}
