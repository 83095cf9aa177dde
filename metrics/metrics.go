package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucloud_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menucloud_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Public cache metrics, labelled by resource (menu_items, categories, settings)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucloud_cache_hits_total",
			Help: "Public cache hits by resource",
		},
		[]string{"resource"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucloud_cache_misses_total",
			Help: "Public cache misses by resource",
		},
		[]string{"resource"},
	)

	CacheBackendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menucloud_cache_backend_errors_total",
			Help: "Cache backend failures swallowed into miss/no-op",
		},
	)

	// Cache warmer metrics
	WarmTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menucloud_cache_warm_tasks_total",
			Help: "Cache warming tasks by outcome",
		},
		[]string{"status"},
	)
)
