package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "seq.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNextSequenceValueIsMonotonic(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := store.NextSequenceValue(ctx, "order_seq")
		if err != nil {
			t.Fatalf("NextSequenceValue: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.NextSequenceValue(ctx, "order_seq"); err != nil {
		t.Fatalf("NextSequenceValue: %v", err)
	}
	got, err := store.NextSequenceValue(ctx, "customer_seq")
	if err != nil {
		t.Fatalf("NextSequenceValue: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected a fresh sequence to start at 1, got %d", got)
	}
}

func TestPositionsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.NextSequenceValue(ctx, "order_seq"); err != nil {
		t.Fatalf("NextSequenceValue: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.NextSequenceValue(ctx, "order_seq")
	if err != nil {
		t.Fatalf("NextSequenceValue after reopen: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected position to survive reopen, got %d", got)
	}
}

func TestNextSequenceValueRejectsEmptyName(t *testing.T) {
	store := openStore(t)
	if _, err := store.NextSequenceValue(context.Background(), ""); err == nil {
		t.Fatalf("expected empty sequence name to be rejected")
	}
}

func TestNewStoreDefaultsPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Path() != "trackcore.db" {
		t.Fatalf("expected default path trackcore.db, got %s", store.Path())
	}
}
