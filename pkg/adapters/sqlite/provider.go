// Package sqlite provides a ConnectionProvider backed by an embedded SQLite database
// (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/aretw0/flowbench/pkg/connection"
	"github.com/aretw0/flowbench/pkg/domain"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Provider implements ports.ConnectionProvider over one SQLite database.
type Provider struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the database at path and applies the required pragmas.
//
// The pool is limited to a single connection: SQLite allows one writer at a time,
// and an in-memory database only exists inside the connection that created it.
func Open(ctx context.Context, path string) (*Provider, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Provider{path: path, db: db}, nil
}

// OpenDefault opens the database and registers it as the process-wide default provider.
func OpenDefault(ctx context.Context, path string) (*Provider, error) {
	p, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	connection.SetDefault(p)
	return p, nil
}

// Path returns the path the provider was opened with.
func (p *Provider) Path() string {
	return p.path
}

// DB returns the handle, or nil once closed.
func (p *Provider) DB() *sql.DB {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db
}

// Connection implements ports.ConnectionProvider.
func (p *Provider) Connection(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil, domain.ErrNoDatabase
	}
	return p.db, nil
}

// Close closes the database. Later Connection calls report domain.ErrNoDatabase.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
