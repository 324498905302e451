package ports

import (
	"context"
	"testing"

	"github.com/aretw0/flowbench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStorageBackendContract runs a suite of tests to verify that a StorageBackend implementation
// adheres to the defined interface contract.
func RunStorageBackendContract(t *testing.T, backend StorageBackend) {
	ctx := context.Background()

	t.Run("Store and Load", func(t *testing.T) {
		err := backend.Store(ctx, "contract-a", "hello")
		require.NoError(t, err)

		got, err := backend.Load(ctx, "contract-a")
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Store(ctx, "contract-b", "one"))
		require.NoError(t, backend.Store(ctx, "contract-b", "two"))

		got, err := backend.Load(ctx, "contract-b")
		require.NoError(t, err)
		assert.Equal(t, "two", got)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := backend.Load(ctx, "contract-missing")
		assert.ErrorIs(t, err, domain.ErrValueNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Store(ctx, "contract-c", "x"))
		require.NoError(t, backend.Delete(ctx, "contract-c"))

		_, err := backend.Load(ctx, "contract-c")
		assert.ErrorIs(t, err, domain.ErrValueNotFound)

		// Deleting twice is fine.
		assert.NoError(t, backend.Delete(ctx, "contract-c"))
	})

	t.Run("Names", func(t *testing.T) {
		require.NoError(t, backend.Store(ctx, "contract-d1", "1"))
		require.NoError(t, backend.Store(ctx, "contract-d2", "2"))

		names, err := backend.Names(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "contract-d1")
		assert.Contains(t, names, "contract-d2")
	})
}
