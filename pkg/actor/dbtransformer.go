package actor

import (
	"context"
	"database/sql"

	"github.com/aretw0/flowbench/pkg/connection"
	"github.com/aretw0/flowbench/pkg/domain"
)

// DBWorkFunc is a work function that needs a database handle.
type DBWorkFunc func(ctx context.Context, db *sql.DB, in domain.Token) (any, error)

// DBTransformer is a Single bound to a database.
// The handle is resolved on first use and cached until WrapUp.
type DBTransformer struct {
	Single

	dbWork DBWorkFunc
	db     *sql.DB
}

// Init assigns the name, declared shapes and database work function.
func (d *DBTransformer) Init(name string, accepts, generates domain.Shapes, work DBWorkFunc) {
	d.dbWork = work
	d.Single.Init(name, accepts, generates, d.activate)
}

// ResolveConnection looks the handle up: the flow's designated provider first,
// then the process default.
func (d *DBTransformer) ResolveConnection(ctx context.Context) error {
	if d.db != nil {
		return nil
	}
	db, err := connection.Resolve(ctx, d.Env().Connections)
	if err != nil {
		return err
	}
	d.db = db
	d.Logger().Debug("Database connection resolved")
	return nil
}

// DB returns the cached handle, or nil before resolution.
func (d *DBTransformer) DB() *sql.DB {
	return d.db
}

func (d *DBTransformer) activate(ctx context.Context, in domain.Token) (any, error) {
	if err := d.ResolveConnection(ctx); err != nil {
		return nil, err
	}
	return d.dbWork(ctx, d.db, in)
}

// WrapUp drops the cached handle without closing it; the provider owns it.
func (d *DBTransformer) WrapUp() {
	d.db = nil
	d.Single.WrapUp()
}
