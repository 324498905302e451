// Package connection resolves the database handle used by database-bound actors.
//
// A flow may designate its own provider (usually a DatabaseConnection standalone actor).
// Otherwise the process-wide default registered with SetDefault is used.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
)

var (
	mu       sync.RWMutex
	fallback ports.ConnectionProvider
)

// SetDefault registers the process-wide provider. Passing nil clears it.
func SetDefault(p ports.ConnectionProvider) {
	mu.Lock()
	defer mu.Unlock()
	fallback = p
}

// Default returns the process-wide provider, or nil.
func Default() ports.ConnectionProvider {
	mu.RLock()
	defer mu.RUnlock()
	return fallback
}

// Resolve looks up a connection: designated first, then the default.
// A provider that reports domain.ErrNoDatabase (or a nil handle) defers to the next one;
// any other error is returned as is.
func Resolve(ctx context.Context, designated ports.ConnectionProvider) (*sql.DB, error) {
	for _, p := range []ports.ConnectionProvider{designated, Default()} {
		if p == nil {
			continue
		}
		db, err := p.Connection(ctx)
		if errors.Is(err, domain.ErrNoDatabase) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if db != nil {
			return db, nil
		}
	}
	return nil, domain.ErrNoDatabase
}

// Static is a provider that always returns the same handle.
type Static struct {
	DB *sql.DB
}

// Connection implements ports.ConnectionProvider.
func (s Static) Connection(context.Context) (*sql.DB, error) {
	if s.DB == nil {
		return nil, domain.ErrNoDatabase
	}
	return s.DB, nil
}
