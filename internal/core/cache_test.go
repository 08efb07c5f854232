package core

import (
	"sync"
	"testing"

	"trackcore/pkg/domain"
)

func TestCacheResolvesEachPropertyOnce(t *testing.T) {
	et, err := domain.NewEntityType("order",
		domain.PropertyDef{Name: "ID", Kind: domain.KindInt, GenerateOnAdd: true},
		domain.PropertyDef{Name: "Reference", Kind: domain.KindUUID, GenerateOnAdd: true},
	)
	if err != nil {
		t.Fatalf("NewEntityType: %v", err)
	}
	id, _ := et.Property("ID")
	reference, _ := et.Property("Reference")

	selections := make(map[string]int)
	cache := NewCache(SelectorFunc(func(p *domain.Property) domain.ValueGenerator {
		selections[p.Name()]++
		if p.Kind() == domain.KindUUID {
			return UUIDValueGenerator{}
		}
		return nil
	}))

	first := cache.GetGenerator(reference)
	second := cache.GetGenerator(reference)
	if first == nil || first != second {
		t.Fatalf("expected the same generator instance across lookups")
	}
	if selections["Reference"] != 1 {
		t.Fatalf("expected one selector invocation for Reference, got %d", selections["Reference"])
	}

	if cache.GetGenerator(id) != nil || cache.GetGenerator(id) != nil {
		t.Fatalf("expected nil resolution for ID")
	}
	if selections["ID"] != 1 {
		t.Fatalf("expected nil resolutions memoized, got %d selector invocations", selections["ID"])
	}
}

func TestCacheIsSafeForConcurrentLookups(t *testing.T) {
	et, err := domain.NewEntityType("order", domain.PropertyDef{Name: "ID", Kind: domain.KindUUID, GenerateOnAdd: true})
	if err != nil {
		t.Fatalf("NewEntityType: %v", err)
	}
	id, _ := et.Property("ID")

	var selections int
	cache := NewCache(SelectorFunc(func(*domain.Property) domain.ValueGenerator {
		selections++
		return UUIDValueGenerator{}
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.GetGenerator(id) == nil {
				t.Error("expected a generator")
			}
		}()
	}
	wg.Wait()
	if selections != 1 {
		t.Fatalf("expected one selector invocation under concurrency, got %d", selections)
	}
}

func TestCachePanicsOnNilArguments(t *testing.T) {
	assertPanics(t, "nil selector", func() { NewCache(nil) })
	cache := NewCache(SelectorFunc(func(*domain.Property) domain.ValueGenerator { return nil }))
	assertPanics(t, "nil property", func() { cache.GetGenerator(nil) })
}
