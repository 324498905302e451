package ports

import (
	"context"
	"database/sql"
)

// ConnectionProvider hands out a database handle.
// A provider that has no connection returns domain.ErrNoDatabase.
type ConnectionProvider interface {
	Connection(ctx context.Context) (*sql.DB, error)
}
