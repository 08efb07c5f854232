// Package postgres provides a Postgres-backed sequence source built on native
// database sequences via nextval.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"trackcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.SequenceSource = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// Default DSN allows local development without configuration; overridable per store.
	defaultDSN = "postgres://localhost/trackcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Sequence names feed CREATE SEQUENCE statements, so they are restricted to
// plain lowercase identifiers.
var sequenceName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store allocates sequence values from Postgres native sequences.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed sequence store using the provided DSN
// (falls back to defaultDSN) and verifies connectivity.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureSequence creates the named sequence when it does not exist yet.
func (s *Store) EnsureSequence(ctx context.Context, name string) error {
	if !sequenceName.MatchString(name) {
		return fmt.Errorf("invalid sequence name %q", name)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s`, name)); err != nil {
		return fmt.Errorf("ensure sequence %s: %w", name, err)
	}
	return nil
}

// NextSequenceValue returns the next value of the named sequence via nextval.
func (s *Store) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	if !sequenceName.MatchString(name) {
		return 0, fmt.Errorf("invalid sequence name %q", name)
	}
	var value int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval($1)`, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("nextval %s: %w", name, err)
	}
	return value, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
