// Package core implements the value-generation coordination core of the
// trackcore change-tracking subsystem: a manager that fills generated and
// key-propagated property values on entity state records before insert,
// the per-property generator cache, the built-in generators, and the key
// propagator.
package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trackcore/pkg/domain"
)

// Manager coordinates pre-insert value generation for entity state records.
// For each property of an entry's type it decides, in declared order, whether
// to propagate a related key value, generate a fresh value, or leave the slot
// alone. The manager is stateless between calls; all per-call work mutates
// the entry in place.
type Manager struct {
	cache      domain.GeneratorCache
	propagator domain.KeyPropagator
	store      domain.StoreContext
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// ManagerOption customises manager construction.
type ManagerOption func(*Manager)

// WithLogger installs a structured logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics installs a metrics recorder observing generation decisions and
// call durations. The default discards all observations.
func WithMetrics(recorder MetricsRecorder) ManagerOption {
	return func(m *Manager) {
		if recorder != nil {
			m.metrics = recorder
		}
	}
}

// NewManager constructs a manager over the supplied generator cache, key
// propagator, and opaque store context. The store context is handed through
// to generators untouched and may be nil when no generator needs the store.
// Nil cache or propagator arguments are programming errors and panic.
func NewManager(cache domain.GeneratorCache, propagator domain.KeyPropagator, store domain.StoreContext, opts ...ManagerOption) *Manager {
	if cache == nil {
		panic("core: generator cache must not be nil")
	}
	if propagator == nil {
		panic("core: key propagator must not be nil")
	}
	m := &Manager{
		cache:      cache,
		propagator: propagator,
		store:      store,
		metrics:    nopMetricsRecorder{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Generate populates every property of the entry that requires a pre-insert
// value, choosing between foreign-key propagation and generator-produced
// values. A nil entry is a programming error and panics.
func (m *Manager) Generate(entry *domain.Entry) error {
	return m.GenerateContext(context.Background(), entry)
}

// GenerateContext is Generate with the context threaded into the propagation
// and generation capabilities, which decide whether to honor cancellation.
// Properties are processed strictly in declared order; each one completes
// before the next starts.
func (m *Manager) GenerateContext(ctx context.Context, entry *domain.Entry) error {
	if entry == nil {
		panic("core: entry must not be nil")
	}
	start := time.Now()
	err := m.generate(ctx, entry)
	m.metrics.Observe(ctx, "generate", err == nil, time.Since(start))
	return err
}

func (m *Manager) generate(ctx context.Context, entry *domain.Entry) error {
	entityType := entry.EntityType()
	for _, property := range entityType.Properties() {
		isForeignKey := property.ForeignKey()
		if !property.GenerateOnAdd() && !isForeignKey {
			continue
		}
		if !entry.HasDefaultValue(property) {
			m.metrics.RecordDecision(ctx, entityType.Name(), DecisionSkipped)
			continue
		}

		if isForeignKey {
			if err := m.propagator.PropagateContext(ctx, entry, property); err != nil {
				m.metrics.RecordDecision(ctx, entityType.Name(), DecisionFailed)
				m.logger.Error("foreign key propagation failed",
					zap.String("entity_type", entityType.Name()),
					zap.String("property", property.Name()),
					zap.Error(err))
				return fmt.Errorf("propagate %s.%s: %w", entityType.Name(), property.Name(), err)
			}
			m.metrics.RecordDecision(ctx, entityType.Name(), DecisionPropagated)
			m.logger.Debug("propagated foreign key value",
				zap.String("entity_type", entityType.Name()),
				zap.String("property", property.Name()))
			continue
		}

		generator := m.mustGenerator(property)
		value, err := generator.Next(ctx, property, m.store)
		if err != nil {
			m.metrics.RecordDecision(ctx, entityType.Name(), DecisionFailed)
			m.logger.Error("value generation failed",
				zap.String("entity_type", entityType.Name()),
				zap.String("property", property.Name()),
				zap.Error(err))
			return fmt.Errorf("generate %s.%s: %w", entityType.Name(), property.Name(), err)
		}
		if value == nil {
			// Generator declined; the slot keeps its default value.
			m.metrics.RecordDecision(ctx, entityType.Name(), DecisionSkipped)
			continue
		}
		entry.SetValue(property, value)
		temporary := generator.GeneratesTemporaryValues()
		if temporary {
			entry.MarkTemporary(property)
		}
		m.metrics.RecordDecision(ctx, entityType.Name(), DecisionGenerated)
		m.logger.Debug("generated value",
			zap.String("entity_type", entityType.Name()),
			zap.String("property", property.Name()),
			zap.Bool("temporary", temporary))
	}
	return nil
}

// MayGetTemporaryValue reports whether values currently visible on the
// property may be provisional: true iff the property is flagged for
// generation on add and its resolved generator declares temporary output.
// A nil property is a programming error and panics.
func (m *Manager) MayGetTemporaryValue(property *domain.Property) bool {
	if property == nil {
		panic("core: property must not be nil")
	}
	if !property.GenerateOnAdd() {
		return false
	}
	return m.mustGenerator(property).GeneratesTemporaryValues()
}

// mustGenerator resolves the property's generator from the cache. Absence is
// an internal consistency defect, not a recoverable failure.
func (m *Manager) mustGenerator(property *domain.Property) domain.ValueGenerator {
	generator := m.cache.GetGenerator(property)
	if generator == nil {
		panic(fmt.Sprintf("core: no value generator resolved for %s.%s", property.EntityType().Name(), property.Name()))
	}
	return generator
}
