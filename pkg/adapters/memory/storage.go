package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Storage implements ports.StorageBackend in memory.
// Safe for concurrent use.
type Storage struct {
	data map[string]any
	mu   sync.RWMutex
}

// NewStorage creates a new in-memory storage backend.
func NewStorage() *Storage {
	return &Storage{
		data: make(map[string]any),
	}
}

// Store saves the value in memory.
func (s *Storage) Store(ctx context.Context, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = value
	return nil
}

// Load retrieves the value from memory.
func (s *Storage) Load(ctx context.Context, name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[name]
	if !ok {
		return nil, domain.ErrValueNotFound
	}
	return value, nil
}

// Delete removes the value.
func (s *Storage) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// Names returns the stored names in sorted order.
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
