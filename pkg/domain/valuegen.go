package domain

import "context"

// StoreContext is an opaque handle onto the backing store passed through to
// value generators. The coordination core never inspects it; generators that
// need store round-trips assert the capabilities they require.
type StoreContext any

// SequenceSource yields monotonically increasing values from a named store
// sequence. Implementations must be safe for concurrent use across entries.
type SequenceSource interface {
	NextSequenceValue(ctx context.Context, name string) (int64, error)
}

// ValueGenerator produces pre-insert values for one property. Generators may
// be stateful and are not assumed safe for concurrent invocation within a
// single entry's generation pass.
type ValueGenerator interface {
	// Next produces the next value for the property. A nil value signals
	// that the property should be left at its default.
	Next(ctx context.Context, property *Property, store StoreContext) (any, error)
	// GeneratesTemporaryValues reports whether produced values are
	// provisional and must be replaced before persistence.
	GeneratesTemporaryValues() bool
}

// GeneratorCache resolves the value generator for a property. Resolution is
// expected to succeed for every property that qualifies for generation; a
// nil result during qualifying-property processing is a defect. The cache
// must be safe for concurrent use across entries.
type GeneratorCache interface {
	GetGenerator(property *Property) ValueGenerator
}

// KeyPropagator assigns a dependent foreign-key property from its related
// principal key. The propagator owns its value assignment; the coordination
// core only dispatches to it.
type KeyPropagator interface {
	Propagate(entry *Entry, property *Property) error
	PropagateContext(ctx context.Context, entry *Entry, property *Property) error
}
