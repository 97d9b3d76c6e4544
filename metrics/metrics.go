// Package metrics exposes Prometheus counters for registry operations and
// a standalone metrics HTTP server.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the operation counters registered on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	// OperationsTotal counts registry operations by operation and result.
	OperationsTotal *prometheus.CounterVec
}

// New creates the metric set for a service.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: sanitize(namespace),
		Name:      "operations_total",
		Help:      "Registry operations by operation and result.",
	}, []string{"operation", "result"})
	reg.MustRegister(ops)

	return &Metrics{
		registry:        reg,
		OperationsTotal: ops,
	}
}

// RecordOperation increments the operation counter.
func (m *Metrics) RecordOperation(operation, result string) {
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
}

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv     *http.Server
	metrics *Metrics
}

// NewServer creates a metrics server listening on addr.
func NewServer(m *Metrics, addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		metrics: m,
	}
}

// ListenAndServe blocks serving the scrape endpoint.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// sanitize maps a service name to a valid Prometheus namespace.
func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
