package core

import (
	"context"
	"fmt"

	"trackcore/pkg/domain"
)

// Compile-time contract assertion ensuring the propagator satisfies the domain interface.
var _ domain.KeyPropagator = (*Propagator)(nil)

// PrincipalLookup locates the tracked principal entry a dependent entry's
// foreign key points at. A nil result means no principal is currently
// tracked for the relationship.
type PrincipalLookup interface {
	PrincipalEntry(entry *domain.Entry, foreignKey *domain.ForeignKey) *domain.Entry
}

// PrincipalLookupFunc adapts a plain function to the PrincipalLookup interface.
type PrincipalLookupFunc func(entry *domain.Entry, foreignKey *domain.ForeignKey) *domain.Entry

// PrincipalEntry invokes the function.
func (f PrincipalLookupFunc) PrincipalEntry(entry *domain.Entry, foreignKey *domain.ForeignKey) *domain.Entry {
	return f(entry, foreignKey)
}

// Propagator assigns dependent foreign-key properties from their related
// principal keys. When the principal key value is available it is copied,
// inheriting the principal slot's temporary mark. When no principal is
// tracked or its key is still at default, the dependent property's own
// generator supplies a placeholder marked temporary, to be overwritten once
// the principal key materialises.
type Propagator struct {
	lookup PrincipalLookup
	cache  domain.GeneratorCache
	store  domain.StoreContext
}

// NewPropagator constructs a propagator. The lookup may be nil, in which
// case every propagation falls through to the generator placeholder path.
// A nil cache is a programming error and panics.
func NewPropagator(lookup PrincipalLookup, cache domain.GeneratorCache, store domain.StoreContext) *Propagator {
	if cache == nil {
		panic("core: generator cache must not be nil")
	}
	return &Propagator{lookup: lookup, cache: cache, store: store}
}

// Propagate assigns the dependent property synchronously.
func (p *Propagator) Propagate(entry *domain.Entry, property *domain.Property) error {
	return p.PropagateContext(context.Background(), entry, property)
}

// PropagateContext assigns the dependent property, threading the context
// into any generator fallback.
func (p *Propagator) PropagateContext(ctx context.Context, entry *domain.Entry, property *domain.Property) error {
	if entry == nil {
		panic("core: entry must not be nil")
	}
	if property == nil {
		panic("core: property must not be nil")
	}
	foreignKey, principalProperty := findForeignKey(entry.EntityType(), property)
	if foreignKey == nil {
		panic(fmt.Sprintf("core: property %s.%s does not participate in a foreign key", entry.EntityType().Name(), property.Name()))
	}

	if p.lookup != nil {
		if principal := p.lookup.PrincipalEntry(entry, foreignKey); principal != nil {
			if !principal.HasDefaultValue(principalProperty) {
				entry.SetValue(property, principal.Value(principalProperty))
				if principal.HasTemporaryValue(principalProperty) {
					entry.MarkTemporary(property)
				}
				return nil
			}
		}
	}

	generator := p.cache.GetGenerator(property)
	if generator == nil {
		// No generator for the dependent kind; the slot stays at default.
		return nil
	}
	value, err := generator.Next(ctx, property, p.store)
	if err != nil {
		return fmt.Errorf("placeholder for %s.%s: %w", entry.EntityType().Name(), property.Name(), err)
	}
	if value == nil {
		return nil
	}
	entry.SetValue(property, value)
	entry.MarkTemporary(property)
	return nil
}

// findForeignKey returns the first foreign key of the entity type containing
// the property as a dependent, along with the paired principal property.
func findForeignKey(entityType *domain.EntityType, property *domain.Property) (*domain.ForeignKey, *domain.Property) {
	for _, foreignKey := range entityType.ForeignKeys() {
		if principal, ok := foreignKey.PrincipalProperty(property); ok {
			return foreignKey, principal
		}
	}
	return nil, nil
}
