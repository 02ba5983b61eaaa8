// Package metrics holds the site's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "elegant"

// Metrics holds all Prometheus metrics of the site.
type Metrics struct {
	reg prometheus.Gatherer

	// Content API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Page metrics
	HomeLoadsTotal    *prometheus.CounterVec
	QuerySubmitsTotal *prometheus.CounterVec
}

// New creates and registers all metrics on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the site metrics on reg and serves them from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{reg: gatherer}

	m.APIRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "content_api",
			Name:      "requests_total",
			Help:      "Content API requests by endpoint, method and outcome",
		},
		[]string{"endpoint", "method", "outcome"},
	)

	m.APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "content_api",
			Name:      "request_duration_seconds",
			Help:      "Duration of content API requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"endpoint", "method"},
	)

	m.HomeLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "home",
			Name:      "loads_total",
			Help:      "Home page content loads by result",
		},
		[]string{"result"},
	)

	m.QuerySubmitsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "contact",
			Name:      "query_submits_total",
			Help:      "Contact query submissions by result",
		},
		[]string{"result"},
	)

	return m
}

// ObserveRequest records one finished content API request.
func (m *Metrics) ObserveRequest(endpoint, method, outcome string, elapsed time.Duration) {
	m.APIRequestsTotal.WithLabelValues(endpoint, method, outcome).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// HomeLoaded records the result of a home page content load ("loaded" or "error").
func (m *Metrics) HomeLoaded(result string) {
	m.HomeLoadsTotal.WithLabelValues(result).Inc()
}

// QuerySubmitted records the result of a contact submission ("success" or "error").
func (m *Metrics) QuerySubmitted(result string) {
	m.QuerySubmitsTotal.WithLabelValues(result).Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
