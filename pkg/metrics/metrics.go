// Package metrics holds Prometheus instrumentation for the streaming core.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for stream authorization and delivery.
type Metrics struct {
	registry           *prometheus.Registry
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	streamGrantsTotal  prometheus.Counter
	streamDeniedTotal  *prometheus.CounterVec
	tokensIssuedTotal  prometheus.Counter
	filesServedTotal   *prometheus.CounterVec
	segmentBytesServed prometheus.Counter
}

// New creates and registers the streaming metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests, by method, route and status",
	}, []string{"method", "path", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	streamGrantsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stream_grants_total",
		Help: "Stream requests that were authorized and received a token",
	})
	streamDeniedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_denied_total",
		Help: "Stream requests rejected, by reason",
	}, []string{"reason"})
	tokensIssuedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_tokens_issued_total",
		Help: "Access tokens minted",
	})
	filesServedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hls_files_served_total",
		Help: "Manifest and segment responses, by kind",
	}, []string{"kind"})
	segmentBytesServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_segment_bytes_served_total",
		Help: "Total bytes of segment data written to clients",
	})

	registry.MustRegister(
		httpRequestsTotal,
		httpDuration,
		streamGrantsTotal,
		streamDeniedTotal,
		tokensIssuedTotal,
		filesServedTotal,
		segmentBytesServed,
	)

	return &Metrics{
		registry:           registry,
		httpRequestsTotal:  httpRequestsTotal,
		httpDuration:       httpDuration,
		streamGrantsTotal:  streamGrantsTotal,
		streamDeniedTotal:  streamDeniedTotal,
		tokensIssuedTotal:  tokensIssuedTotal,
		filesServedTotal:   filesServedTotal,
		segmentBytesServed: segmentBytesServed,
	}
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncStreamGranted increments the authorized stream counter.
func (m *Metrics) IncStreamGranted() {
	m.streamGrantsTotal.Inc()
}

// IncStreamDenied increments the denial counter for a reason label
// ("entitlement", "progress", "unavailable", "origin", "token").
func (m *Metrics) IncStreamDenied(reason string) {
	m.streamDeniedTotal.WithLabelValues(reason).Inc()
}

// IncTokenIssued increments the minted token counter.
func (m *Metrics) IncTokenIssued() {
	m.tokensIssuedTotal.Inc()
}

// IncFileServed increments the served-file counter for a kind label
// ("manifest", "segment", "binary").
func (m *Metrics) IncFileServed(kind string) {
	m.filesServedTotal.WithLabelValues(kind).Inc()
}

// AddSegmentBytes adds n to the served-bytes counter.
func (m *Metrics) AddSegmentBytes(n int64) {
	m.segmentBytesServed.Add(float64(n))
}

// Handler returns an http.Handler that serves the Prometheus scrape
// endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
