package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	importBatches prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scumkills",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})

	m.importRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scumkills",
		Name:      "import_records_total",
		Help:      "Killfeed records processed by the import pipeline, by outcome.",
	}, []string{"status"})

	m.importBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scumkills",
		Name:      "import_batches_total",
		Help:      "Import batches processed.",
	})

	m.registry.MustRegister(m.httpRequests, m.importRecords, m.importBatches)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
}

// ObserveImport counts one processed import record by outcome.
func (m *Metrics) ObserveImport(status string) {
	m.importRecords.WithLabelValues(status).Inc()
}

// ObserveBatch counts one completed import batch.
func (m *Metrics) ObserveBatch() {
	m.importBatches.Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
