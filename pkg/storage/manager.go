package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/flowbench/internal/logging"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held when the holder dies.
const DefaultLockTTL = 30 * time.Second

const lockPrefix = "storage:"

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to named storage values.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	backend ports.StorageBackend

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager on top of the given backend.
func NewManager(backend ports.StorageBackend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// Get returns the value stored under name.
func (m *Manager) Get(ctx context.Context, name string) (any, error) {
	var value any
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		value, err = m.backend.Load(ctx, name)
		return err
	})
	return value, err
}

// Lookup is Get with not-found reported as ok=false instead of an error.
func (m *Manager) Lookup(ctx context.Context, name string) (any, bool, error) {
	value, err := m.Get(ctx, name)
	if errors.Is(err, domain.ErrValueNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under name.
func (m *Manager) Put(ctx context.Context, name string, value any) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.backend.Store(ctx, name, value)
	})
}

// Delete removes the value stored under name.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.backend.Delete(ctx, name)
	})
}

// Names delegates to the backend.
func (m *Manager) Names(ctx context.Context) ([]string, error) {
	return m.backend.Names(ctx)
}

// Update performs an atomic read-modify-write of name.
// fn receives the current value and whether it exists; its result is stored.
func (m *Manager) Update(ctx context.Context, name string, fn func(current any, exists bool) (any, error)) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		current, err := m.backend.Load(ctx, name)
		exists := true
		if errors.Is(err, domain.ErrValueNotFound) {
			exists = false
		} else if err != nil {
			return fmt.Errorf("failed to read storage value %q: %w", name, err)
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}
		return m.backend.Store(ctx, name, next)
	})
}

// Backend returns the underlying storage backend.
func (m *Manager) Backend() ports.StorageBackend {
	return m.backend
}

// WithLock executes a function while holding the lock for the storage name.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, lockPrefix+name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"storage", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
