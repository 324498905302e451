package actors

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/flowbench/pkg/actor"
	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/aretw0/flowbench/pkg/storage"
)

// StorageConfig names the storage value an actor works on.
type StorageConfig struct {
	StorageName string `mapstructure:"storage_name"`
}

func requireStorage(b *actor.Base, cfg StorageConfig) (*storage.Manager, error) {
	if cfg.StorageName == "" {
		return nil, b.Invalidf("storage_name is required")
	}
	if b.Env().Storage == nil {
		return nil, b.Invalidf("no storage available")
	}
	return b.Env().Storage, nil
}

// SetStorageValue stores each payload under a storage name and passes the token on.
type SetStorageValue struct {
	actor.Single
	cfg   StorageConfig
	store *storage.Manager
}

func NewSetStorageValue(name string) *SetStorageValue {
	s := &SetStorageValue{}
	s.Init(name, domain.Any(), domain.Any(), s.set)
	return s
}

func (s *SetStorageValue) Configure(opts map[string]any) error {
	s.cfg = StorageConfig{}
	return actor.DecodeOptions(opts, &s.cfg)
}

func (s *SetStorageValue) SetUp(env *actor.Env) error {
	if err := s.Single.SetUp(env); err != nil {
		return err
	}
	store, err := requireStorage(&s.Base, s.cfg)
	s.store = store
	return err
}

func (s *SetStorageValue) set(ctx context.Context, in domain.Token) (any, error) {
	if err := s.store.Put(ctx, s.cfg.StorageName, in.Payload); err != nil {
		return nil, err
	}
	return in.Payload, nil
}

// AppendStorageValue appends each payload to the list stored under a storage name.
// The read-modify-write runs inside the storage critical section.
type AppendStorageValue struct {
	actor.Single
	cfg   StorageConfig
	store *storage.Manager
}

func NewAppendStorageValue(name string) *AppendStorageValue {
	a := &AppendStorageValue{}
	a.Init(name, domain.Any(), domain.Any(), a.append)
	return a
}

func (a *AppendStorageValue) Configure(opts map[string]any) error {
	a.cfg = StorageConfig{}
	return actor.DecodeOptions(opts, &a.cfg)
}

func (a *AppendStorageValue) SetUp(env *actor.Env) error {
	if err := a.Single.SetUp(env); err != nil {
		return err
	}
	store, err := requireStorage(&a.Base, a.cfg)
	a.store = store
	return err
}

func (a *AppendStorageValue) append(ctx context.Context, in domain.Token) (any, error) {
	err := a.store.Update(ctx, a.cfg.StorageName, func(current any, exists bool) (any, error) {
		if !exists || current == nil {
			return []any{in.Payload}, nil
		}
		list, err := toSlice(current)
		if err != nil {
			return nil, fmt.Errorf("storage value %q is not a list: %w", a.cfg.StorageName, err)
		}
		next := make([]any, len(list), len(list)+1)
		copy(next, list)
		return append(next, in.Payload), nil
	})
	if err != nil {
		return nil, err
	}
	return in.Payload, nil
}

// StorageValueConfig configures StorageValue.
type StorageValueConfig struct {
	StorageName string `mapstructure:"storage_name"`
	// Lenient turns a missing value into a warning instead of an error.
	Lenient bool `mapstructure:"lenient"`
}

// StorageValue emits the value stored under a storage name.
type StorageValue struct {
	actor.Source
	cfg   StorageValueConfig
	store *storage.Manager
}

func NewStorageValue(name string) *StorageValue {
	s := &StorageValue{}
	s.Init(name, domain.Any(), s.produce)
	return s
}

func (s *StorageValue) Configure(opts map[string]any) error {
	s.cfg = StorageValueConfig{}
	return actor.DecodeOptions(opts, &s.cfg)
}

func (s *StorageValue) SetUp(env *actor.Env) error {
	if err := s.Source.SetUp(env); err != nil {
		return err
	}
	store, err := requireStorage(&s.Base, StorageConfig{StorageName: s.cfg.StorageName})
	s.store = store
	return err
}

func (s *StorageValue) produce(ctx context.Context) ([]any, error) {
	value, err := s.store.Get(ctx, s.cfg.StorageName)
	if errors.Is(err, domain.ErrValueNotFound) && s.cfg.Lenient {
		s.Logger().Warn("Storage value not found", "storage", s.cfg.StorageName)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s.cfg.StorageName, err)
	}
	return []any{value}, nil
}

// LookUpConfig configures LookUp.
type LookUpConfig struct {
	StorageName string `mapstructure:"storage_name"`
	// Lenient turns a missing key into a warning and no output.
	Lenient bool `mapstructure:"lenient"`
}

// LookUp uses each payload as a key into the map stored under a storage name.
type LookUp struct {
	actor.Single
	cfg   LookUpConfig
	store *storage.Manager
}

func NewLookUp(name string) *LookUp {
	l := &LookUp{cfg: LookUpConfig{Lenient: true}}
	l.Init(name, domain.Of(domain.ShapeString, domain.ShapeInt), domain.Any(), l.lookup)
	return l
}

func (l *LookUp) Configure(opts map[string]any) error {
	l.cfg = LookUpConfig{Lenient: true}
	return actor.DecodeOptions(opts, &l.cfg)
}

func (l *LookUp) SetUp(env *actor.Env) error {
	if err := l.Single.SetUp(env); err != nil {
		return err
	}
	store, err := requireStorage(&l.Base, StorageConfig{StorageName: l.cfg.StorageName})
	l.store = store
	return err
}

func (l *LookUp) lookup(ctx context.Context, in domain.Token) (any, error) {
	key := fmt.Sprint(in.Payload)

	table, ok, err := l.store.Lookup(ctx, l.cfg.StorageName)
	if err != nil {
		return nil, err
	}
	var value any
	found := false
	if ok {
		m, err := toMap(table)
		if err != nil {
			return nil, fmt.Errorf("storage value %q: %w", l.cfg.StorageName, err)
		}
		value, found = m[key]
	}

	if !found {
		if l.cfg.Lenient {
			l.Logger().Warn("Key not found", "key", key, "storage", l.cfg.StorageName)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrKeyNotFound, key)
	}
	return value, nil
}
