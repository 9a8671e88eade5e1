// Package middleware provides cross-cutting concerns for the validator host.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-validlength/internal/ports"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "validlength"

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks verdict outcomes, enacted failure policies, value lengths and
// validation latency.
type PrometheusMetrics struct {
	verdicts         *prometheus.CounterVec
	policyActions    *prometheus.CounterVec
	valueLength      *prometheus.HistogramVec
	executionLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	observations     *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all metrics with reg under namespace. A nil reg uses the default registry;
// an empty namespace uses DefaultNamespace.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      ports.MetricVerdicts,
				Help:      "Total number of verdicts produced by validators.",
			},
			[]string{"validator", "shape", "outcome", "violation"},
		),
		policyActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      ports.MetricPolicyActions,
				Help:      "Total number of failure policies enacted by the guard.",
			},
			[]string{"validator", "field", "policy"},
		),
		valueLength: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      ports.MetricValueLength,
				Help:      "Measured length of validated values.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"validator", "shape"},
		),

		// General execution metrics.
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Execution time of guard and validator operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "validator"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of other operations recorded.",
			},
			[]string{"operation", "validator"},
		),
		observations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "observations",
				Help:      "Values recorded under metric names without a dedicated histogram.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"metric", "validator"},
		),
	}
}

// label returns labels[key], or "unknown" when missing or empty.
func label(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation, label(labels, "validator")).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricVerdicts:
		pm.verdicts.WithLabelValues(
			label(labels, "validator"),
			label(labels, "shape"),
			label(labels, "outcome"),
			label(labels, "violation"),
		).Add(value)
	case ports.MetricPolicyActions:
		pm.policyActions.WithLabelValues(
			label(labels, "validator"),
			label(labels, "field"),
			label(labels, "policy"),
		).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, label(labels, "validator")).Add(value)
	}
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case ports.MetricValueLength:
		pm.valueLength.WithLabelValues(label(labels, "validator"), label(labels, "shape")).Observe(value)
	default:
		pm.observations.WithLabelValues(metric, label(labels, "validator")).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
