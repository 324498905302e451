package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowbench/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the storage backend.
// Values live under prefix+"v:" and bookkeeping under prefix+"meta:", so no
// storage name can collide with the index.
const DefaultPrefix = "flowbench:storage:"

// DefaultLockPrefix namespaces lock keys, outside of DefaultPrefix.
const DefaultLockPrefix = "flowbench:"

// farFuture is the index score used for values without expiration (2100-01-01).
const farFuture = 4102444800

// Storage implements ports.StorageBackend using Redis.
// Values are JSON encoded, so numbers come back as float64.
type Storage struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Storage)

// WithTTL sets the expiration for stored values.
func WithTTL(ttl time.Duration) Option {
	return func(s *Storage) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// New creates a Redis storage backend connected to address.
func New(address, password string, db int, opts ...Option) *Storage {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis storage backend from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Storage {
	s := &Storage{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) key(name string) string {
	return s.prefix + "v:" + name
}

func (s *Storage) indexKey() string {
	return s.prefix + "meta:index"
}

// Client exposes the underlying client, e.g. to build a Locker on the same connection.
func (s *Storage) Client() *backend.Client {
	return s.client
}

// Store persists the JSON encoding of value.
func (s *Storage) Store(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal storage value %q: %w", name, err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: name})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and decodes the value stored under name.
func (s *Storage) Load(ctx context.Context, name string) (any, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrValueNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var value any
	if err := json.Unmarshal(val, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage value %q: %w", name, err)
	}
	return value, nil
}

// Delete removes the value and its index entry.
func (s *Storage) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// Names lists stored names, pruning index entries whose values expired.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired values: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list storage values: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (s *Storage) Close() error {
	return s.client.Close()
}
