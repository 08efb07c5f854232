// Package testutil provides a stub database for postgres sequence store tests.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"time"
)

// StubConn records statements and serves sequence values during tests.
type StubConn struct {
	Execs     []string
	Sequences map[string]int64
	FailPing  bool
	FailExec  bool
	FailQuery bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Sequences: make(map[string]int64)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("not implemented") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext. CREATE SEQUENCE statements
// register the sequence; everything else is recorded and succeeds.
func (c *StubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	upper := strings.ToUpper(strings.TrimSpace(query))
	if strings.HasPrefix(upper, "CREATE SEQUENCE") {
		fields := strings.Fields(query)
		name := strings.ToLower(fields[len(fields)-1])
		if _, ok := c.Sequences[name]; !ok {
			c.Sequences[name] = 0
		}
	}
	return driver.RowsAffected(0), nil
}

// QueryContext implements driver.QueryerContext. SELECT nextval($1) advances
// and returns the named sequence.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.FailQuery {
		return nil, fmt.Errorf("query fail")
	}
	if !strings.Contains(strings.ToLower(query), "nextval") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one argument, got %d", len(args))
	}
	name, ok := args[0].Value.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string sequence name, got %T", args[0].Value)
	}
	if c.Sequences == nil {
		c.Sequences = make(map[string]int64)
	}
	if _, exists := c.Sequences[name]; !exists {
		return nil, fmt.Errorf("relation %q does not exist", name)
	}
	c.Sequences[name]++
	return &stubRows{
		cols: []string{"nextval"},
		rows: [][]driver.Value{{c.Sequences[name]}},
	}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
