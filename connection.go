package main

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql"
)

// Conn is the part of *sql.DB the session layer uses.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// Opener establishes a new backend connection.
type Opener func(ctx context.Context) (Conn, error)

// ConnectionManager owns the single backend connection. It is opened on first
// use and kept until an execution error invalidates it.
type ConnectionManager struct {
	mu     sync.Mutex
	conn   Conn
	open   Opener
	logger *slog.Logger
}

func NewConnectionManager(open Opener, logger *slog.Logger) *ConnectionManager {
	if logger == nil {
		logger = discardLogger()
	}
	return &ConnectionManager{open: open, logger: logger.With("component", "connection")}
}

// MySQLOpener opens a StarRocks connection over the MySQL protocol. The pool
// is capped at one physical connection and never recycles it on idle.
func MySQLOpener(cfg StarRocksConfig, logger *slog.Logger) Opener {
	dsn := cfg.DSN()
	return func(ctx context.Context) (Conn, error) {
		logger.Debug("opening connection", "dsn", maskDSN(dsn))
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open database")
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
}

// Acquire returns the live connection, opening one if none is held. A failed
// open leaves the slot empty so the next call tries again.
func (m *ConnectionManager) Acquire(ctx context.Context) (Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return m.conn, nil
	}
	conn, err := m.open(ctx)
	if err != nil {
		m.logger.Warn("connect failed", "error", maskSecret(err.Error()))
		return nil, errors.Mark(errors.Wrap(err, "failed to connect to StarRocks"), ErrConnect)
	}
	m.conn = conn
	m.logger.Info("connection established")
	return conn, nil
}

// Invalidate closes and drops the held connection. Close errors are logged
// and otherwise ignored. Safe to call when nothing is held.
func (m *ConnectionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return
	}
	if err := m.conn.Close(); err != nil {
		m.logger.Warn("closing connection", "error", err)
	}
	m.conn = nil
	m.logger.Info("connection invalidated")
}

// Held reports whether a connection is currently held.
func (m *ConnectionManager) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Do runs fn on the live connection. Any error, from acquisition or from fn,
// invalidates the connection before it is returned.
func (m *ConnectionManager) Do(ctx context.Context, fn func(Conn) error) error {
	conn, err := m.Acquire(ctx)
	if err != nil {
		m.Invalidate()
		return err
	}
	if err := fn(conn); err != nil {
		m.Invalidate()
		return err
	}
	return nil
}

func (m *ConnectionManager) Close() error {
	m.Invalidate()
	return nil
}
