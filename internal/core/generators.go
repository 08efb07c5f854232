package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"trackcore/pkg/domain"
)

// DefaultSequenceBlockSize is the hi/lo block size used by the default
// selector for sequence-bound properties.
const DefaultSequenceBlockSize = 10

// NewDefaultSelector returns the built-in generator selector. Sequence-bound
// properties receive a hi/lo sequence generator; otherwise selection is by
// kind: UUIDs get permanent UUID values, integers and strings get temporary
// placeholders, and remaining kinds resolve to no generator.
func NewDefaultSelector() Selector {
	// One shared counter keeps temporary integers unique across all
	// properties of a model.
	temporaryInts := NewTemporaryIntValueGenerator()
	return SelectorFunc(func(property *domain.Property) domain.ValueGenerator {
		if property.Sequence() != "" {
			return NewSequenceValueGenerator(property.Sequence(), DefaultSequenceBlockSize)
		}
		switch property.Kind() {
		case domain.KindUUID:
			return UUIDValueGenerator{}
		case domain.KindInt:
			return temporaryInts
		case domain.KindString:
			return TemporaryStringValueGenerator{}
		default:
			return nil
		}
	})
}

// UUIDValueGenerator produces random permanent UUIDs.
type UUIDValueGenerator struct{}

// Next returns a freshly generated UUID.
func (UUIDValueGenerator) Next(context.Context, *domain.Property, domain.StoreContext) (any, error) {
	return uuid.New(), nil
}

// GeneratesTemporaryValues reports false: UUIDs are final.
func (UUIDValueGenerator) GeneratesTemporaryValues() bool { return false }

// TemporaryIntValueGenerator produces descending negative integers. The
// values are placeholders the store replaces on insert, so they only need to
// be unique and distinguishable from real keys.
type TemporaryIntValueGenerator struct {
	counter atomic.Int64
}

// NewTemporaryIntValueGenerator constructs a generator with its counter at zero.
func NewTemporaryIntValueGenerator() *TemporaryIntValueGenerator {
	return &TemporaryIntValueGenerator{}
}

// Next returns the next negative placeholder value.
func (g *TemporaryIntValueGenerator) Next(context.Context, *domain.Property, domain.StoreContext) (any, error) {
	return g.counter.Add(-1), nil
}

// GeneratesTemporaryValues reports true.
func (g *TemporaryIntValueGenerator) GeneratesTemporaryValues() bool { return true }

// TemporaryStringValueGenerator produces unique placeholder strings.
type TemporaryStringValueGenerator struct{}

// Next returns a fresh placeholder string.
func (TemporaryStringValueGenerator) Next(context.Context, *domain.Property, domain.StoreContext) (any, error) {
	return uuid.NewString(), nil
}

// GeneratesTemporaryValues reports true.
func (TemporaryStringValueGenerator) GeneratesTemporaryValues() bool { return true }

// SequenceValueGenerator produces permanent integers from a named store
// sequence using hi/lo block allocation: one store round-trip reserves a
// block of blockSize values, which are then handed out locally. Safe for
// concurrent use; the store context must satisfy domain.SequenceSource.
type SequenceValueGenerator struct {
	name      string
	blockSize int64

	mu   sync.Mutex
	next int64
	max  int64
}

// NewSequenceValueGenerator constructs a hi/lo generator over the named
// sequence. Block sizes below one fall back to DefaultSequenceBlockSize.
func NewSequenceValueGenerator(name string, blockSize int64) *SequenceValueGenerator {
	if blockSize < 1 {
		blockSize = DefaultSequenceBlockSize
	}
	return &SequenceValueGenerator{name: name, blockSize: blockSize}
}

// Next returns the next value from the current block, fetching a new block
// from the store when the current one is exhausted.
func (g *SequenceValueGenerator) Next(ctx context.Context, property *domain.Property, store domain.StoreContext) (any, error) {
	source, ok := store.(domain.SequenceSource)
	if !ok {
		return nil, fmt.Errorf("sequence %s: store context does not provide sequence values", g.name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next >= g.max {
		hi, err := source.NextSequenceValue(ctx, g.name)
		if err != nil {
			return nil, fmt.Errorf("sequence %s: %w", g.name, err)
		}
		g.next = (hi-1)*g.blockSize + 1
		g.max = hi*g.blockSize + 1
	}
	value := g.next
	g.next++
	return value, nil
}

// GeneratesTemporaryValues reports false: sequence values are final.
func (g *SequenceValueGenerator) GeneratesTemporaryValues() bool { return false }
