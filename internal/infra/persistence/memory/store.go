// Package memory provides an in-memory sequence source used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"trackcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain sequence interface.
var _ domain.SequenceSource = (*Store)(nil)

// Store hands out monotonically increasing values per sequence name, starting
// at 1. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	sequences map[string]int64
}

// NewStore constructs an empty in-memory sequence store.
func NewStore() *Store {
	return &Store{sequences: make(map[string]int64)}
}

// NextSequenceValue returns the next value of the named sequence.
func (s *Store) NextSequenceValue(_ context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("sequence name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[name]++
	return s.sequences[name], nil
}

// Snapshot returns a copy of the current sequence positions.
func (s *Store) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.sequences))
	for name, position := range s.sequences {
		out[name] = position
	}
	return out
}
