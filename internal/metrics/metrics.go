// Package metrics exposes the site's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// Metrics holds every collector. Each instance owns its own registry so
// tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Writes        *prometheus.CounterVec
	FailSoftReads *prometheus.CounterVec
	SearchQueries *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Write operations by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		FailSoftReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failsoft_reads_total",
			Help:      "Content reads that degraded to an empty result, by reason.",
		}, []string{"reason"}),
		SearchQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Search queries by serving source.",
		}, []string{"source"}),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Write records the outcome of a write operation.
func (m *Metrics) Write(entity, operation, outcome string) {
	if m == nil {
		return
	}
	m.Writes.WithLabelValues(entity, operation, outcome).Inc()
}

// FailSoft records a read that degraded to an empty result.
func (m *Metrics) FailSoft(reason string) {
	if m == nil {
		return
	}
	m.FailSoftReads.WithLabelValues(reason).Inc()
}

// Search records which backend served a query.
func (m *Metrics) Search(source string) {
	if m == nil {
		return
	}
	m.SearchQueries.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
