// Package metrics provides Prometheus instrumentation for request parsing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated while requests are read.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestErrors    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestSize      *prometheus.HistogramVec
	ParamsPerRequest *prometheus.HistogramVec
	SessionLookups   *prometheus.CounterVec
}

// New registers the collectors on reg, or on the default registry when reg is nil.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "swad"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests read",
			},
			[]string{"transport", "status"},
		),
		RequestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "request_errors_total",
				Help:      "Total number of requests rejected while reading parameters",
			},
			[]string{"transport", "kind"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_read_duration_seconds",
				Help:      "Time spent reading and tokenizing request parameters",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"transport"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_size_bytes",
				Help:      "Declared request body size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
			[]string{"transport"},
		),
		ParamsPerRequest: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_params",
				Help:      "Number of parameters per request, duplicates included",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
			},
			[]string{"transport"},
		),
		SessionLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_lookups_total",
				Help:      "Total number of session lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest times f and counts it under transport.
// f returns the error kind, empty on success.
func (m *Metrics) ObserveRequest(transport string, f func() (kind string, err error)) error {
	start := time.Now()

	kind, err := f()
	m.RequestDuration.WithLabelValues(transport).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
		if kind == "" {
			kind = "internal"
		}
		m.RequestErrors.WithLabelValues(transport, kind).Inc()
	}
	m.RequestsTotal.WithLabelValues(transport, status).Inc()
	return err
}
