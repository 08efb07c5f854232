package core

import (
	"context"
	"errors"
	"testing"

	"trackcore/pkg/domain"
)

func propagationFixture(t *testing.T) (customer, order *domain.EntityType, fk *domain.ForeignKey) {
	t.Helper()
	customer, err := domain.NewEntityType("customer",
		domain.PropertyDef{Name: "ID", Kind: domain.KindInt, GenerateOnAdd: true},
	)
	if err != nil {
		t.Fatalf("NewEntityType customer: %v", err)
	}
	order, err = domain.NewEntityType("order",
		domain.PropertyDef{Name: "CustomerID", Kind: domain.KindInt},
	)
	if err != nil {
		t.Fatalf("NewEntityType order: %v", err)
	}
	fk, err = order.AddForeignKey([]string{"CustomerID"}, customer, []string{"ID"})
	if err != nil {
		t.Fatalf("AddForeignKey: %v", err)
	}
	return customer, order, fk
}

func fixedLookup(principal *domain.Entry) PrincipalLookup {
	return PrincipalLookupFunc(func(*domain.Entry, *domain.ForeignKey) *domain.Entry {
		return principal
	})
}

func TestPropagateCopiesPrincipalKeyValue(t *testing.T) {
	customer, order, _ := propagationFixture(t)
	customerID, _ := customer.Property("ID")
	principal := domain.NewEntry(customer)
	principal.SetValue(customerID, int64(42))

	cache := &fakeCache{generators: map[string]domain.ValueGenerator{}}
	propagator := NewPropagator(fixedLookup(principal), cache, nil)

	entry := domain.NewEntry(order)
	dependent, _ := order.Property("CustomerID")
	if err := propagator.Propagate(entry, dependent); err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if got := entry.Value(dependent); got != int64(42) {
		t.Fatalf("expected propagated value 42, got %v", got)
	}
	if entry.HasTemporaryValue(dependent) {
		t.Fatalf("expected a final principal value to stay unmarked")
	}
	if len(cache.lookups) != 0 {
		t.Fatalf("expected no generator fallback, got lookups %v", cache.lookups)
	}
}

func TestPropagateInheritsTemporaryMark(t *testing.T) {
	customer, order, _ := propagationFixture(t)
	customerID, _ := customer.Property("ID")
	principal := domain.NewEntry(customer)
	principal.SetValue(customerID, int64(-3))
	principal.MarkTemporary(customerID)

	propagator := NewPropagator(fixedLookup(principal), &fakeCache{}, nil)
	entry := domain.NewEntry(order)
	dependent, _ := order.Property("CustomerID")
	if err := propagator.Propagate(entry, dependent); err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if got := entry.Value(dependent); got != int64(-3) {
		t.Fatalf("expected propagated value -3, got %v", got)
	}
	if !entry.HasTemporaryValue(dependent) {
		t.Fatalf("expected the temporary mark to propagate with the value")
	}
}

func TestPropagateFallsBackToGeneratorPlaceholder(t *testing.T) {
	customer, order, _ := propagationFixture(t)

	cases := []struct {
		name   string
		lookup PrincipalLookup
	}{
		{"no lookup", nil},
		{"no principal tracked", fixedLookup(nil)},
		{"principal key at default", fixedLookup(domain.NewEntry(customer))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{value: int64(-7)}
			cache := &fakeCache{generators: map[string]domain.ValueGenerator{"CustomerID": gen}}
			propagator := NewPropagator(tc.lookup, cache, nil)

			entry := domain.NewEntry(order)
			dependent, _ := order.Property("CustomerID")
			if err := propagator.Propagate(entry, dependent); err != nil {
				t.Fatalf("Propagate: %v", err)
			}
			if got := entry.Value(dependent); got != int64(-7) {
				t.Fatalf("expected placeholder -7, got %v", got)
			}
			if !entry.HasTemporaryValue(dependent) {
				t.Fatalf("expected placeholder marked temporary")
			}
			if gen.calls != 1 {
				t.Fatalf("expected one generator call, got %d", gen.calls)
			}
		})
	}
}

func TestPropagateWithoutGeneratorLeavesDefault(t *testing.T) {
	_, order, _ := propagationFixture(t)
	propagator := NewPropagator(nil, &fakeCache{generators: map[string]domain.ValueGenerator{}}, nil)

	entry := domain.NewEntry(order)
	dependent, _ := order.Property("CustomerID")
	if err := propagator.Propagate(entry, dependent); err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if !entry.HasDefaultValue(dependent) {
		t.Fatalf("expected the slot to stay at default without a generator")
	}
}

func TestPropagateWrapsGeneratorErrors(t *testing.T) {
	_, order, _ := propagationFixture(t)
	genErr := errors.New("store offline")
	cache := &fakeCache{generators: map[string]domain.ValueGenerator{"CustomerID": &fakeGenerator{err: genErr}}}
	propagator := NewPropagator(nil, cache, nil)

	entry := domain.NewEntry(order)
	dependent, _ := order.Property("CustomerID")
	if err := propagator.PropagateContext(context.Background(), entry, dependent); !errors.Is(err, genErr) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}

func TestPropagatePanicsOnProgrammingErrors(t *testing.T) {
	customer, order, _ := propagationFixture(t)
	propagator := NewPropagator(nil, &fakeCache{}, nil)
	entry := domain.NewEntry(order)

	assertPanics(t, "nil entry", func() { _ = propagator.Propagate(nil, nil) })
	assertPanics(t, "nil property", func() { _ = propagator.Propagate(entry, nil) })

	principalEntry := domain.NewEntry(customer)
	customerID, _ := customer.Property("ID")
	assertPanics(t, "non foreign key property", func() { _ = propagator.Propagate(principalEntry, customerID) })
	assertPanics(t, "nil cache", func() { NewPropagator(nil, nil, nil) })
}
