package main

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// recordingConn wraps a real connection, records every statement and can
// rewrite StarRocks-only statements into ones SQLite understands.
type recordingConn struct {
	Conn

	mu       sync.Mutex
	queries  []string
	rewrite  map[string]string
	fail     error
	closeErr error
	closed   int
}

func (c *recordingConn) record(query string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	if c.fail != nil {
		return "", c.fail
	}
	if r, ok := c.rewrite[query]; ok {
		return r, nil
	}
	return query, nil
}

func (c *recordingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	q, err := c.record(query)
	if err != nil {
		return nil, err
	}
	return c.Conn.QueryContext(ctx, q, args...)
}

func (c *recordingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q, err := c.record(query)
	if err != nil {
		return nil, err
	}
	return c.Conn.ExecContext(ctx, q, args...)
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	c.closed++
	c.mu.Unlock()
	if err := c.Conn.Close(); err != nil {
		return err
	}
	return c.closeErr
}

func (c *recordingConn) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}

// testBackend hands out fresh in-memory SQLite connections and remembers
// each of them.
type testBackend struct {
	t       *testing.T
	rewrite map[string]string
	openErr error
	setup   []string
	mu      sync.Mutex
	opened  []*recordingConn
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	return &testBackend{t: t, rewrite: map[string]string{}}
}

func (b *testBackend) Open(ctx context.Context) (Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(b.t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	require.NoError(b.t, db.PingContext(ctx))
	for _, stmt := range b.setup {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(b.t, err, stmt)
	}
	conn := &recordingConn{Conn: db, rewrite: b.rewrite}
	b.opened = append(b.opened, conn)
	b.t.Cleanup(func() { db.Close() })
	return conn, nil
}

func (b *testBackend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.opened)
}

func (b *testBackend) Last() *recordingConn {
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(b.t, b.opened, "no connection opened")
	return b.opened[len(b.opened)-1]
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog()
	require.NoError(t, err)
	return c
}
