// Package observability holds the Prometheus instruments for store calls
// and API requests.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "todo"

// StoreMetrics instruments outbound task store calls.
type StoreMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewStoreMetrics registers the store instruments with reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	f := promauto.With(reg)
	return &StoreMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "store_requests_total",
			Help:      "Task store requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "store_request_duration_ms",
			Help:      "Task store request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"op"}),
	}
}

// Observe records one call. It is safe on a nil receiver.
func (m *StoreMetrics) Observe(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Requests.WithLabelValues(op, outcome).Inc()
	m.Latency.WithLabelValues(op).Observe(float64(d.Milliseconds()))
}

// APIMetrics instruments the development server.
type APIMetrics struct {
	Requests *prometheus.CounterVec
	Tasks    prometheus.Gauge
}

// NewAPIMetrics registers the API instruments with reg.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	f := promauto.With(reg)
	return &APIMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "api_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		Tasks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "api_tasks",
			Help:      "Number of tasks held by the server.",
		}),
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
