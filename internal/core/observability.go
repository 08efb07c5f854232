package core

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Per-property generation decision labels recorded by the manager.
const (
	// DecisionGenerated marks a property filled by its value generator.
	DecisionGenerated = "generated"
	// DecisionPropagated marks a property filled by key propagation.
	DecisionPropagated = "propagated"
	// DecisionSkipped marks a qualifying property left untouched (non-default
	// value or generator declined).
	DecisionSkipped = "skipped"
	// DecisionFailed marks a property whose generation or propagation errored.
	DecisionFailed = "failed"
)

// MetricsRecorder observes value-generation activity. Implementations must
// be safe for concurrent use across entries.
type MetricsRecorder interface {
	// RecordDecision counts one per-property generation decision.
	RecordDecision(ctx context.Context, entityType, decision string)
	// Observe records one Generate call outcome and duration.
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type nopMetricsRecorder struct{}

func (nopMetricsRecorder) RecordDecision(context.Context, string, string) {}

func (nopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

var expvarSeq uint64

// ExpvarMetricsRecorder publishes aggregate counters via expvar. It fulfills
// MetricsRecorder for deployments that prefer process-local metrics without
// external dependencies. The recorder maintains decision counts per entity
// type, duration totals in milliseconds per operation, and success/error
// counters.
type ExpvarMetricsRecorder struct {
	name      string
	mu        sync.Mutex
	decisions map[string]map[string]int64
	durations map[string]float64
	results   map[string]map[string]int64
}

// ExpvarMetricsSnapshot captures a read-only view of the recorded metrics.
type ExpvarMetricsSnapshot struct {
	Decisions   map[string]map[string]int64 `json:"decisions_total"`
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder and publishes
// it under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("valuegen_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{
		name:      name,
		decisions: make(map[string]map[string]int64),
		durations: make(map[string]float64),
		results:   make(map[string]map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarMetricsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	decisions := make(map[string]map[string]int64, len(r.decisions))
	for entity, counts := range r.decisions {
		cpy := make(map[string]int64, len(counts))
		for decision, count := range counts {
			cpy[decision] = count
		}
		decisions[entity] = cpy
	}

	durations := make(map[string]float64, len(r.durations))
	for op, total := range r.durations {
		durations[op] = total
	}

	results := make(map[string]map[string]int64, len(r.results))
	for op, statusCounts := range r.results {
		cpy := make(map[string]int64, len(statusCounts))
		for status, count := range statusCounts {
			cpy[status] = count
		}
		results[op] = cpy
	}

	return ExpvarMetricsSnapshot{
		Decisions:   decisions,
		DurationsMS: durations,
		Results:     results,
		RecordedAt:  time.Now().UTC(),
	}
}

// RecordDecision counts one per-property generation decision.
func (r *ExpvarMetricsRecorder) RecordDecision(_ context.Context, entityType, decision string) {
	if entityType == "" || decision == "" {
		return
	}
	r.mu.Lock()
	if _, ok := r.decisions[entityType]; !ok {
		r.decisions[entityType] = make(map[string]int64, 4)
	}
	r.decisions[entityType][decision]++
	r.mu.Unlock()
}

// Observe records a generation operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)
	status := "error"
	if success {
		status = "success"
	}

	r.mu.Lock()
	r.durations[operation] += ms
	if _, ok := r.results[operation]; !ok {
		r.results[operation] = make(map[string]int64, 2)
	}
	r.results[operation][status]++
	r.mu.Unlock()
}
