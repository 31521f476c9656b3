package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/domain"
)

// RunTreeStoreContract runs a suite of tests verifying that a TreeStore
// implementation adheres to the interface contract. Adapter tests call it
// against their concrete store.
func RunTreeStoreContract(t *testing.T, store TreeStore) {
	ctx := context.Background()
	name := "contract-tree-" + time.Now().Format("20060102150405")
	payload := []byte(`{"version":1,"tree":{"nodes":[],"blackboards":[],"roots":[]}}`)

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, payload))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, payload, loaded)
	})

	t.Run("Save replaces", func(t *testing.T) {
		updated := []byte(`{"version":1,"tree":{"nodes":[],"blackboards":[],"roots":[]},"x":true}`)
		require.NoError(t, store.Save(ctx, name, updated))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, updated, loaded)
	})

	t.Run("Load non-existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, payload))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound, "Load after Delete should return ErrTreeNotFound")
	})

	t.Run("List", func(t *testing.T) {
		name1 := name + "-1"
		name2 := name + "-2"
		require.NoError(t, store.Save(ctx, name1, payload))
		require.NoError(t, store.Save(ctx, name2, payload))
		defer func() {
			_ = store.Delete(ctx, name1)
			_ = store.Delete(ctx, name2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name1)
		assert.Contains(t, names, name2)
	})
}
