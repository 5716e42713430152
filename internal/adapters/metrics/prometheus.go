// Package metrics exports pipeline timings and outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

const namespace = "election"

// PipelineMetrics records every pipeline stage (synthesize, derive,
// aggregate, pivot, score) as a latency observation and an outcome count.
type PipelineMetrics struct {
	registry   *prometheus.Registry
	duration   *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

var _ ports.PipelineObserver = (*PipelineMetrics)(nil)

// NewPipelineMetrics registers the pipeline collectors in a private registry
// together with the Go runtime and process collectors.
func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &PipelineMetrics{
		registry: registry,
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_operation_duration_seconds",
				Help:      "Execution time of pipeline operations.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation"},
		),
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_operations_total",
				Help:      "Total number of pipeline operations by outcome.",
			},
			[]string{"operation", "status"},
		),
	}
}

func (m *PipelineMetrics) ObserveOperation(op string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.operations.WithLabelValues(op, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
