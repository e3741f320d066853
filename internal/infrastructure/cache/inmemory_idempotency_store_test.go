package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	newStore := func() *InMemoryIdempotencyStore {
		store := NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })
		return store
	}

	t.Run("first mark succeeds", func(t *testing.T) {
		store := newStore()

		isNew, err := store.MarkProcessed(context.Background(), "evt-1", time.Hour)

		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("second mark of same event is rejected", func(t *testing.T) {
		store := newStore()

		_, err := store.MarkProcessed(context.Background(), "evt-1", time.Hour)
		require.NoError(t, err)

		isNew, err := store.MarkProcessed(context.Background(), "evt-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired entry can be marked again", func(t *testing.T) {
		store := newStore()

		_, err := store.MarkProcessed(context.Background(), "evt-1", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		isNew, err := store.MarkProcessed(context.Background(), "evt-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("is processed reflects marking", func(t *testing.T) {
		store := newStore()

		processed, err := store.IsProcessed(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(context.Background(), "evt-1", time.Hour)
		require.NoError(t, err)

		processed, err = store.IsProcessed(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("cleanup removes expired entries", func(t *testing.T) {
		store := newStore()

		_, err := store.MarkProcessed(context.Background(), "evt-1", time.Millisecond)
		require.NoError(t, err)
		_, err = store.MarkProcessed(context.Background(), "evt-2", time.Hour)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		store.cleanup()

		assert.Equal(t, 1, store.Size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()

		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
