// Package monitoring wires the Prometheus registry, the zap logger and OpenTelemetry tracing.
package monitoring

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/sample-app/internal/config"
	"github.com/turtacn/sample-app/pkg/constants"
)

// RequestDurationName is the name of the request-duration histogram, before namespacing.
const RequestDurationName = "http_request_duration_ms"

// Metrics owns the Prometheus registry served on the metrics route.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry holding the Go runtime and process collectors
// plus the request-duration histogram.
func NewMetrics(cfg *config.MetricsConfig) (*Metrics, error) {
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = constants.DefaultBuckets
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      RequestDurationName,
				Help:      "Duration of HTTP requests in ms",
				Buckets:   buckets,
			},
			[]string{"method", "route", "code"},
		),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	m.handler = promhttp.InstrumentMetricHandler(
		m.registry,
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
			Registry:      m.registry,
			ErrorHandling: promhttp.ContinueOnError,
		}),
	)
	return m, nil
}

// ObserveRequest records one request duration, in milliseconds.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).
		Observe(float64(d) / float64(time.Millisecond))
}

// StartTimer starts timing a request. The sample is recorded when
// ObserveDuration is called on the returned timer.
func (m *Metrics) StartTimer(method, route string, code int) *prometheus.Timer {
	obs := m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(code))
	return prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
		obs.Observe(seconds * 1000)
	}))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Gatherer exposes the registry for readiness checks and tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
