// Package metrics exposes Prometheus collectors for the crawl pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	domainsFetchedTotal        prometheus.Counter
	fetchErrorsTotal           *prometheus.CounterVec
	linksExtractedTotal        prometheus.Counter
	linksDroppedTotal          prometheus.Counter
	edgesSubmittedTotal        prometheus.Counter
	edgesWrittenTotal          prometheus.Counter
	edgeWriteFailuresTotal     prometheus.Counter
	frontierPending            prometheus.Gauge
	activeWorkers              prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		domainsFetchedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_domains_fetched_total",
				Help: "Total number of domains fetched successfully.",
			},
		)

		fetchErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domgraph_fetch_errors_total",
				Help: "Total fetch failures, labeled by kind.",
			},
			[]string{"kind"},
		)

		linksExtractedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_links_extracted_total",
				Help: "Total raw hrefs pulled out of fetched pages.",
			},
		)

		linksDroppedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_links_dropped_total",
				Help: "Total hrefs dropped by normalization.",
			},
		)

		edgesSubmittedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_edges_submitted_total",
				Help: "Total edges handed to the graph writer.",
			},
		)

		edgesWrittenTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_edges_written_total",
				Help: "Total edge upserts applied to the store.",
			},
		)

		edgeWriteFailuresTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "domgraph_edge_write_failures_total",
				Help: "Total edge upserts rejected by the store.",
			},
		)

		frontierPending = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "domgraph_frontier_pending",
				Help: "Domains currently waiting in the frontier queue.",
			},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "domgraph_active_workers",
				Help: "Workers currently processing a domain.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domgraph_http_requests_total",
				Help: "Total HTTP requests served, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domgraph_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch counts one successful fetch.
func ObserveFetch() {
	Init()
	domainsFetchedTotal.Inc()
}

// ObserveFetchError counts one failed fetch by kind.
func ObserveFetchError(kind string) {
	Init()
	fetchErrorsTotal.WithLabelValues(kind).Inc()
}

// ObserveLinksExtracted adds to the raw href counter.
func ObserveLinksExtracted(n int) {
	Init()
	linksExtractedTotal.Add(float64(n))
}

// ObserveLinkDropped counts one href the normalizer rejected.
func ObserveLinkDropped() {
	Init()
	linksDroppedTotal.Inc()
}

// ObserveEdgeSubmitted counts one edge handed to the writer.
func ObserveEdgeSubmitted() {
	Init()
	edgesSubmittedTotal.Inc()
}

// ObserveEdgeWritten counts one applied upsert.
func ObserveEdgeWritten() {
	Init()
	edgesWrittenTotal.Inc()
}

// ObserveEdgeWriteFailure counts one rejected upsert.
func ObserveEdgeWriteFailure() {
	Init()
	edgeWriteFailuresTotal.Inc()
}

// SetFrontierPending records the current queue depth.
func SetFrontierPending(n int) {
	Init()
	frontierPending.Set(float64(n))
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	activeWorkers.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
