package core

import (
	"sync"

	"trackcore/pkg/domain"
)

// Compile-time contract assertion ensuring the cache satisfies the domain interface.
var _ domain.GeneratorCache = (*Cache)(nil)

// Selector chooses a value generator implementation for a property. A nil
// result means no generator exists for the property; the manager treats that
// as a defect when the property qualifies for generation.
type Selector interface {
	Select(property *domain.Property) domain.ValueGenerator
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(property *domain.Property) domain.ValueGenerator

// Select invokes the function.
func (f SelectorFunc) Select(property *domain.Property) domain.ValueGenerator {
	return f(property)
}

// Cache memoizes generator resolution per property descriptor. The selector
// runs at most once per property; the resolved generator (including a nil
// resolution) is reused across calls and entries. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	selector   Selector
	generators map[*domain.Property]domain.ValueGenerator
}

// NewCache constructs a cache resolving generators through the selector.
// A nil selector is a programming error and panics.
func NewCache(selector Selector) *Cache {
	if selector == nil {
		panic("core: selector must not be nil")
	}
	return &Cache{
		selector:   selector,
		generators: make(map[*domain.Property]domain.ValueGenerator),
	}
}

// GetGenerator resolves the generator for the property, consulting the
// selector on first use only. A nil property is a programming error and
// panics.
func (c *Cache) GetGenerator(property *domain.Property) domain.ValueGenerator {
	if property == nil {
		panic("core: property must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generator, ok := c.generators[property]; ok {
		return generator
	}
	generator := c.selector.Select(property)
	c.generators[property] = generator
	return generator
}
