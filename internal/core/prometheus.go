package core

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time contract assertion ensuring the recorder satisfies MetricsRecorder.
var _ MetricsRecorder = (*PrometheusMetricsRecorder)(nil)

// PrometheusMetricsRecorder exports value-generation metrics through a
// Prometheus registerer: decision counters per entity type, operation
// result counters, and operation duration histograms.
type PrometheusMetricsRecorder struct {
	decisions *prometheus.CounterVec
	results   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder constructs and registers the recorder's
// collectors. A nil registerer defaults to the process-global registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackcore",
			Subsystem: "valuegen",
			Name:      "decisions_total",
			Help:      "Per-property value generation decisions by entity type.",
		}, []string{"entity_type", "decision"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackcore",
			Subsystem: "valuegen",
			Name:      "operations_total",
			Help:      "Value generation operations by status.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trackcore",
			Subsystem: "valuegen",
			Name:      "operation_duration_seconds",
			Help:      "Value generation operation durations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	for _, collector := range []prometheus.Collector{rec.decisions, rec.results, rec.durations} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return rec, nil
}

// RecordDecision counts one per-property generation decision.
func (r *PrometheusMetricsRecorder) RecordDecision(_ context.Context, entityType, decision string) {
	if entityType == "" || decision == "" {
		return
	}
	r.decisions.WithLabelValues(entityType, decision).Inc()
}

// Observe records a generation operation outcome and duration.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.results.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}
