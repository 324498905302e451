package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/flowbench"
	"github.com/aretw0/flowbench/pkg/adapters/file"
	"github.com/aretw0/flowbench/pkg/adapters/memory"
	"github.com/aretw0/flowbench/pkg/adapters/redis"
	"github.com/aretw0/flowbench/pkg/adapters/sqlite"
	"github.com/aretw0/flowbench/pkg/connection"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/observability"
	"github.com/aretw0/flowbench/pkg/persistence/middleware"
	"github.com/aretw0/flowbench/pkg/ports"
	"github.com/aretw0/flowbench/pkg/storage"
	backend "github.com/redis/go-redis/v9"
)

// Options are the settings shared by every command.
type Options struct {
	// Dir is the flow directory.
	Dir string

	// Vars override flow variables, as "name=value".
	Vars []string

	Debug   bool
	JSONLog bool
	Quiet   bool

	// RedisURL selects Redis storage with distributed locks, e.g. redis://localhost:6379/0.
	RedisURL string

	// StoragePath selects file storage rooted at the given directory.
	StoragePath string

	// StorageKey encrypts stored values with AES-256-GCM (64 hex characters or base64).
	StorageKey string

	// DBPath opens a SQLite database registered as the default connection.
	DBPath string

	// Stdout receives flow output and reports. Defaults to os.Stdout.
	Stdout io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// Session holds an engine and the resources opened for it.
type Session struct {
	Engine  *flowbench.Engine
	Metrics *observability.Metrics
	Logger  *slog.Logger

	closers []func() error
}

// Close releases the storage and database connections.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// newSession initializes an engine with standard CLI conventions.
// extra hooks are chained after the logging and metrics hooks.
func newSession(ctx context.Context, opts Options, extra ...domain.LifecycleHooks) (*Session, error) {
	logger := createLogger(opts)
	s := &Session{
		Metrics: observability.NewMetrics(),
		Logger:  logger,
	}

	backendStore, locker, err := s.openStorage(ctx, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	if opts.StorageKey != "" {
		key, err := middleware.ParseKey(opts.StorageKey)
		if err != nil {
			s.Close()
			return nil, err
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			s.Close()
			return nil, err
		}
		backendStore = middleware.Chain(backendStore, encrypt)
	}
	storeOpts := []storage.Option{storage.WithLogger(logger)}
	if locker != nil {
		storeOpts = append(storeOpts, storage.WithLocker(locker))
	}

	if opts.DBPath != "" {
		db, err := sqlite.OpenDefault(ctx, opts.DBPath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		s.closers = append(s.closers, func() error {
			connection.SetDefault(nil)
			return db.Close()
		})
	}

	hooks := append([]domain.LifecycleHooks{observability.LogHooks(logger), s.Metrics.Hooks()}, extra...)
	eng, err := flowbench.New(opts.Dir,
		flowbench.WithLogger(logger),
		flowbench.WithLifecycleHooks(domain.MergeHooks(hooks...)),
		flowbench.WithStorage(storage.NewManager(backendStore, storeOpts...)),
		flowbench.WithOutput(opts.stdout()),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	s.Engine = eng
	return s, nil
}

// openStorage selects the storage backend: Redis, then file, then memory.
func (s *Session) openStorage(ctx context.Context, opts Options) (ports.StorageBackend, ports.DistributedLocker, error) {
	switch {
	case opts.RedisURL != "":
		redisOpts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis unavailable: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		return redis.NewFromClient(client), redis.NewLocker(client, redis.DefaultLockPrefix), nil
	case opts.StoragePath != "":
		return file.NewStorage(opts.StoragePath), nil, nil
	default:
		return memory.NewStorage(), nil, nil
	}
}
