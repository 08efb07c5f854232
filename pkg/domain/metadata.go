// Package domain defines the runtime entity metadata, mutable state entries,
// and value-generation capability interfaces used by trackcore.
package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the declared value type of a property.
type Kind int

// Supported property value kinds.
const (
	// KindBool is a boolean property.
	KindBool Kind = iota
	// KindInt is a 64-bit signed integer property.
	KindInt
	// KindFloat is a 64-bit floating point property.
	KindFloat
	// KindString is a string property.
	KindString
	// KindBytes is a raw byte slice property.
	KindBytes
	// KindTime is a timestamp property.
	KindTime
	// KindUUID is a UUID property.
	KindUUID
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Zero returns the default value of the kind.
func (k Kind) Zero() any {
	switch k {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindString:
		return ""
	case KindBytes:
		return []byte(nil)
	case KindTime:
		return time.Time{}
	case KindUUID:
		return uuid.Nil
	default:
		return nil
	}
}

// IsZero reports whether v is the default value of the kind. A nil value is
// always the default regardless of kind.
func (k Kind) IsZero(v any) bool {
	if v == nil {
		return true
	}
	switch k {
	case KindBool:
		b, ok := v.(bool)
		return ok && !b
	case KindInt:
		switch n := v.(type) {
		case int64:
			return n == 0
		case int:
			return n == 0
		}
		return false
	case KindFloat:
		f, ok := v.(float64)
		return ok && f == 0
	case KindString:
		s, ok := v.(string)
		return ok && s == ""
	case KindBytes:
		b, ok := v.([]byte)
		return ok && len(b) == 0
	case KindTime:
		t, ok := v.(time.Time)
		return ok && t.IsZero()
	case KindUUID:
		id, ok := v.(uuid.UUID)
		return ok && bytes.Equal(id[:], uuid.Nil[:])
	default:
		return false
	}
}

// PropertyDef declares one property of an entity type before construction.
type PropertyDef struct {
	// Name is the property name, unique within the entity type.
	Name string
	// Kind is the declared value type.
	Kind Kind
	// GenerateOnAdd marks the property for value generation before insert.
	GenerateOnAdd bool
	// Sequence optionally binds the property to a named store sequence.
	Sequence string
}

// Property is the immutable runtime descriptor of one entity-type property.
type Property struct {
	Annotatable

	name          string
	kind          Kind
	generateOnAdd bool
	sequence      string
	ordinal       int
	entityType    *EntityType
	foreignKey    bool
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Kind returns the declared value kind.
func (p *Property) Kind() Kind { return p.kind }

// GenerateOnAdd reports whether the property is configured to receive a
// generated value before insert.
func (p *Property) GenerateOnAdd() bool { return p.generateOnAdd }

// Sequence returns the bound store sequence name, or "" when unbound.
func (p *Property) Sequence() string { return p.sequence }

// Ordinal returns the property's position in the entity type's declared order.
func (p *Property) Ordinal() int { return p.ordinal }

// EntityType returns the owning entity type.
func (p *Property) EntityType() *EntityType { return p.entityType }

// ForeignKey reports whether the property participates in a foreign key as a
// dependent property.
func (p *Property) ForeignKey() bool { return p.foreignKey }

// EntityType is the immutable runtime descriptor of one tracked entity type.
// Properties iterate in declaration order everywhere.
type EntityType struct {
	Annotatable

	name        string
	properties  []*Property
	byName      map[string]*Property
	foreignKeys []*ForeignKey
}

// NewEntityType constructs an entity type from ordered property definitions.
// Property names must be non-empty and unique within the type.
func NewEntityType(name string, defs ...PropertyDef) (*EntityType, error) {
	if name == "" {
		return nil, fmt.Errorf("entity type name must not be empty")
	}
	et := &EntityType{
		name:       name,
		properties: make([]*Property, 0, len(defs)),
		byName:     make(map[string]*Property, len(defs)),
	}
	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("entity type %s: property %d has empty name", name, i)
		}
		if _, exists := et.byName[def.Name]; exists {
			return nil, fmt.Errorf("entity type %s: duplicate property %s", name, def.Name)
		}
		prop := &Property{
			name:          def.Name,
			kind:          def.Kind,
			generateOnAdd: def.GenerateOnAdd,
			sequence:      def.Sequence,
			ordinal:       i,
			entityType:    et,
		}
		et.properties = append(et.properties, prop)
		et.byName[def.Name] = prop
	}
	return et, nil
}

// Name returns the entity type name.
func (et *EntityType) Name() string { return et.name }

// Properties returns the properties in declaration order. The returned slice
// is a copy and safe to retain.
func (et *EntityType) Properties() []*Property {
	out := make([]*Property, len(et.properties))
	copy(out, et.properties)
	return out
}

// Property looks up a property by name.
func (et *EntityType) Property(name string) (*Property, bool) {
	p, ok := et.byName[name]
	return p, ok
}

// ForeignKeys returns the foreign keys declared on the entity type.
func (et *EntityType) ForeignKeys() []*ForeignKey {
	out := make([]*ForeignKey, len(et.foreignKeys))
	copy(out, et.foreignKeys)
	return out
}

// ForeignKey relates dependent properties of one entity type to the key
// properties of a principal entity type. Pairing is positional.
type ForeignKey struct {
	dependent     []*Property
	principalType *EntityType
	principal     []*Property
}

// AddForeignKey declares a foreign key from the named dependent properties to
// the named key properties of the principal type. The dependent properties
// are marked as foreign-key participants.
func (et *EntityType) AddForeignKey(dependent []string, principal *EntityType, principalKeys []string) (*ForeignKey, error) {
	if principal == nil {
		return nil, fmt.Errorf("entity type %s: foreign key principal must not be nil", et.name)
	}
	if len(dependent) == 0 || len(dependent) != len(principalKeys) {
		return nil, fmt.Errorf("entity type %s: foreign key requires matching dependent and principal properties", et.name)
	}
	fk := &ForeignKey{
		dependent:     make([]*Property, 0, len(dependent)),
		principalType: principal,
		principal:     make([]*Property, 0, len(principalKeys)),
	}
	for i, name := range dependent {
		dep, ok := et.byName[name]
		if !ok {
			return nil, fmt.Errorf("entity type %s: unknown dependent property %s", et.name, name)
		}
		key, ok := principal.byName[principalKeys[i]]
		if !ok {
			return nil, fmt.Errorf("entity type %s: unknown principal property %s.%s", et.name, principal.name, principalKeys[i])
		}
		fk.dependent = append(fk.dependent, dep)
		fk.principal = append(fk.principal, key)
	}
	for _, dep := range fk.dependent {
		dep.foreignKey = true
	}
	et.foreignKeys = append(et.foreignKeys, fk)
	return fk, nil
}

// DependentProperties returns the dependent-side properties in pairing order.
func (fk *ForeignKey) DependentProperties() []*Property {
	out := make([]*Property, len(fk.dependent))
	copy(out, fk.dependent)
	return out
}

// PrincipalType returns the principal entity type.
func (fk *ForeignKey) PrincipalType() *EntityType { return fk.principalType }

// PrincipalProperties returns the principal-side key properties in pairing order.
func (fk *ForeignKey) PrincipalProperties() []*Property {
	out := make([]*Property, len(fk.principal))
	copy(out, fk.principal)
	return out
}

// PrincipalProperty returns the principal key property paired with the given
// dependent property.
func (fk *ForeignKey) PrincipalProperty(dependent *Property) (*Property, bool) {
	for i, dep := range fk.dependent {
		if dep == dependent {
			return fk.principal[i], true
		}
	}
	return nil, false
}
