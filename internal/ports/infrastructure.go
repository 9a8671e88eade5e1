package ports

import (
	"time"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like verdict outcomes and policy
	// actions.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like value lengths.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

var _ MetricsCollector = NoopMetrics{}

// RecordLatency implements MetricsCollector.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordHistogram implements MetricsCollector.
func (NoopMetrics) RecordHistogram(string, float64, map[string]string) {}

// Metric names emitted by the guard through a MetricsCollector.
const (
	// MetricVerdicts counts validator verdicts.
	// Labels: validator, shape, outcome, violation.
	MetricVerdicts = "verdicts_total"

	// MetricPolicyActions counts failure policies enacted by the guard.
	// Labels: validator, field, policy.
	MetricPolicyActions = "policy_actions_total"

	// MetricValueLength observes measured value lengths.
	// Labels: validator, shape.
	MetricValueLength = "value_length"
)
