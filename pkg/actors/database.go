package actors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/adapters/sqlite"
	"github.com/aretw0/flowbench/pkg/domain"
)

// SQLConfig configures the SQL actors.
type SQLConfig struct {
	// SQL is the statement to run. Each "?" placeholder is bound to the payload, or to the
	// elements of an array payload when there are several placeholders.
	SQL string `mapstructure:"sql"`
}

func bindArgs(query string, payload any) ([]any, error) {
	n := countPlaceholders(query)
	switch {
	case n == 0:
		return nil, nil
	case n == 1:
		return []any{payload}, nil
	}
	args, err := toSlice(payload)
	if err != nil {
		return nil, fmt.Errorf("statement has %d placeholders: %w", n, err)
	}
	if len(args) != n {
		return nil, fmt.Errorf("statement has %d placeholders but payload has %d elements", n, len(args))
	}
	return args, nil
}

// countPlaceholders counts the "?" placeholders of query, ignoring those inside
// string literals, quoted identifiers and comments.
func countPlaceholders(query string) int {
	n := 0
	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == '?':
			n++
		case c == '\'' || c == '"' || c == '`':
			// A doubled quote is an escaped quote and reopens the literal on the next pass.
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				return n
			}
			i += end + 1
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				return n
			}
			i += end
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return n
			}
			i += end + 3
		}
	}
	return n
}

// DBQuery runs a query per token and emits the result rows.
type DBQuery struct {
	actor.DBTransformer
	cfg SQLConfig
}

func NewDBQuery(name string) *DBQuery {
	q := &DBQuery{}
	q.Init(name, domain.Any(), domain.Of(domain.ShapeRows), q.query)
	return q
}

func (q *DBQuery) Configure(opts map[string]any) error {
	q.cfg = SQLConfig{}
	return actor.DecodeOptions(opts, &q.cfg)
}

func (q *DBQuery) SetUp(env *actor.Env) error {
	if err := q.DBTransformer.SetUp(env); err != nil {
		return err
	}
	if strings.TrimSpace(q.cfg.SQL) == "" {
		return q.Invalidf("sql is required")
	}
	return nil
}

func (q *DBQuery) query(ctx context.Context, db *sql.DB, in domain.Token) (any, error) {
	args, err := bindArgs(q.cfg.SQL, in.Payload)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q.cfg.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// DBExecute runs a statement per token, emits the number of affected rows.
type DBExecute struct {
	actor.DBTransformer
	cfg SQLConfig
}

func NewDBExecute(name string) *DBExecute {
	e := &DBExecute{}
	e.Init(name, domain.Any(), domain.Of(domain.ShapeInt), e.exec)
	return e
}

func (e *DBExecute) Configure(opts map[string]any) error {
	e.cfg = SQLConfig{}
	return actor.DecodeOptions(opts, &e.cfg)
}

func (e *DBExecute) SetUp(env *actor.Env) error {
	if err := e.DBTransformer.SetUp(env); err != nil {
		return err
	}
	if strings.TrimSpace(e.cfg.SQL) == "" {
		return e.Invalidf("sql is required")
	}
	return nil
}

func (e *DBExecute) exec(ctx context.Context, db *sql.DB, in domain.Token) (any, error) {
	args, err := bindArgs(e.cfg.SQL, in.Payload)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, e.cfg.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("statement failed: %w", err)
	}
	return res.RowsAffected()
}

// DatabaseConnectionConfig configures DatabaseConnection.
type DatabaseConnectionConfig struct {
	Path string `mapstructure:"path"`
	// Init holds statements run once after opening (schema, seed data).
	Init []string `mapstructure:"init"`
}

// DatabaseConnection is a standalone that opens a SQLite database for the flow.
// The runtime designates it as the flow's connection provider.
type DatabaseConnection struct {
	actor.Standalone
	cfg DatabaseConnectionConfig

	mu       sync.Mutex
	provider *sqlite.Provider
}

func NewDatabaseConnection(name string) *DatabaseConnection {
	d := &DatabaseConnection{}
	d.Init(name, d.open)
	return d
}

func (d *DatabaseConnection) Configure(opts map[string]any) error {
	d.cfg = DatabaseConnectionConfig{}
	return actor.DecodeOptions(opts, &d.cfg)
}

func (d *DatabaseConnection) SetUp(env *actor.Env) error {
	if err := d.Standalone.SetUp(env); err != nil {
		return err
	}
	if d.cfg.Path == "" {
		return d.Invalidf("path is required")
	}
	return nil
}

func (d *DatabaseConnection) open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider != nil {
		return nil
	}

	p, err := sqlite.Open(ctx, d.cfg.Path)
	if err != nil {
		return err
	}
	for _, stmt := range d.cfg.Init {
		if _, err := p.DB().ExecContext(ctx, stmt); err != nil {
			_ = p.Close()
			return fmt.Errorf("init statement failed: %w", err)
		}
	}
	d.provider = p
	d.Logger().Debug("Database opened", "path", d.cfg.Path)
	return nil
}

// Connection implements ports.ConnectionProvider.
func (d *DatabaseConnection) Connection(ctx context.Context) (*sql.DB, error) {
	d.mu.Lock()
	p := d.provider
	d.mu.Unlock()
	if p == nil {
		return nil, domain.ErrNoDatabase
	}
	return p.Connection(ctx)
}

// WrapUp closes the database.
func (d *DatabaseConnection) WrapUp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.provider == nil {
		return
	}
	if err := d.provider.Close(); err != nil {
		d.Logger().Warn("Failed to close database", "err", err)
	}
	d.provider = nil
}
