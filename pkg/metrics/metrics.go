// Package metrics defines the Prometheus metric collectors used across the
// query engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the query engine.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	TreeLeaves           prometheus.Histogram
	LeafFetchesTotal     prometheus.Counter
	LeafFetchDuration    prometheus.Histogram
	PostingsDedupTotal   prometheus.Counter
	ResultCacheHitsTotal prometheus.Counter
	ResultCacheMissTotal prometheus.Counter
	CircuitBreakerState  *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "End-to-end query evaluation latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		TreeLeaves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "query_tree_leaves",
				Help:    "Number of leaf operands per query tree.",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		LeafFetchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "leaf_fetches_total",
				Help: "Total postings fetches issued to the index.",
			},
		),
		LeafFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leaf_fetch_duration_seconds",
				Help:    "Latency of a single postings fetch in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		PostingsDedupTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "postings_dedup_total",
				Help: "Leaf evaluations served from the per-query postings cache.",
			},
		),
		ResultCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "result_cache_hits_total",
				Help: "Total result-cache hits.",
			},
		),
		ResultCacheMissTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "result_cache_misses_total",
				Help: "Total result-cache misses.",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open).",
			},
			[]string{"name"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.TreeLeaves,
		m.LeafFetchesTotal,
		m.LeafFetchDuration,
		m.PostingsDedupTotal,
		m.ResultCacheHitsTotal,
		m.ResultCacheMissTotal,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
