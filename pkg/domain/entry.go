package domain

import "fmt"

// Entry is the mutable change-tracking state record for one entity instance.
// It holds the current value of every property of its entity type and tracks
// which slots hold temporary values awaiting replacement before persistence.
// Entries are not safe for concurrent mutation; callers serialize access.
type Entry struct {
	entityType *EntityType
	values     []any
	temporary  []bool
}

// NewEntry constructs a state record for the given entity type with every
// property at its default value. A nil entity type is a programming error
// and panics.
func NewEntry(entityType *EntityType) *Entry {
	if entityType == nil {
		panic("domain: entity type must not be nil")
	}
	return &Entry{
		entityType: entityType,
		values:     make([]any, len(entityType.properties)),
		temporary:  make([]bool, len(entityType.properties)),
	}
}

// EntityType returns the entity type the entry tracks.
func (e *Entry) EntityType() *EntityType { return e.entityType }

// Value returns the current value of the property, or nil when the slot has
// never been written.
func (e *Entry) Value(property *Property) any {
	return e.values[e.slot(property)]
}

// SetValue writes a new current value into the property's slot and clears any
// temporary mark on it.
func (e *Entry) SetValue(property *Property, value any) {
	i := e.slot(property)
	e.values[i] = value
	e.temporary[i] = false
}

// HasDefaultValue reports whether the property currently holds its kind's
// default value. Unwritten slots are at default.
func (e *Entry) HasDefaultValue(property *Property) bool {
	return property.Kind().IsZero(e.values[e.slot(property)])
}

// MarkTemporary flags the property's current value as temporary, signalling
// downstream logic to replace it before final persistence.
func (e *Entry) MarkTemporary(property *Property) {
	e.temporary[e.slot(property)] = true
}

// HasTemporaryValue reports whether the property's current value is flagged
// temporary.
func (e *Entry) HasTemporaryValue(property *Property) bool {
	return e.temporary[e.slot(property)]
}

func (e *Entry) slot(property *Property) int {
	if property == nil {
		panic("domain: property must not be nil")
	}
	if property.entityType != e.entityType {
		panic(fmt.Sprintf("domain: property %s does not belong to entity type %s", property.name, e.entityType.name))
	}
	return property.ordinal
}
