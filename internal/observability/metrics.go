package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corsa_cache_requests_total",
		Help: "Result-cache lookups by key family and outcome (hit or miss).",
	}, []string{"family", "result"})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "corsa_cache_entries",
		Help: "Current number of entries held by the result cache.",
	})

	CacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corsa_cache_evictions_total",
		Help: "Entries removed from the result cache by reason (expired or capacity).",
	}, []string{"reason"})

	DataSourceQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "corsa_datasource_query_seconds",
		Help:    "Latency of listing data-source operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	DataSourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corsa_datasource_errors_total",
		Help: "Failed listing data-source operations.",
	}, []string{"backend", "operation"})

	PricePointsServed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "corsa_price_history_points",
		Help:    "Number of deduplicated price points per computed price history.",
		Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)
