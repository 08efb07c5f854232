// Package sqlite provides a SQLite-backed sequence source persisting sequence
// positions in a single table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"trackcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.SequenceSource = (*Store)(nil)

// Store allocates sequence values from a SQLite database. Each allocation
// increments the named sequence's position inside a transaction.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (creating when needed) a SQLite-backed sequence store.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "trackcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create sequences table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// NextSequenceValue increments and returns the named sequence's position,
// starting at 1 for a fresh sequence.
func (s *Store) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("sequence name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sequences(name, position) VALUES(?, 1)
		ON CONFLICT(name) DO UPDATE SET position = position + 1`, name); err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", name, err)
	}
	var position int64
	if err := tx.QueryRowContext(ctx, `SELECT position FROM sequences WHERE name = ?`, name).Scan(&position); err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return position, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
