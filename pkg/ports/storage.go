package ports

import "context"

// StorageBackend persists named values shared between the actors of a flow.
// Implementations are not required to serialize read-modify-write cycles;
// storage.Manager does that on top of them.
type StorageBackend interface {
	// Load returns the value stored under name.
	// Returns domain.ErrValueNotFound if nothing is stored.
	Load(ctx context.Context, name string) (any, error)

	// Store saves value under name, replacing any previous value.
	Store(ctx context.Context, name string, value any) error

	// Delete removes the value. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Names lists every stored name.
	Names(ctx context.Context) ([]string, error)
}
