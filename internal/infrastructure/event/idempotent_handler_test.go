package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/cache"
)

func TestIdempotentHandler(t *testing.T) {
	newHandler := func(inner shared.EventHandler) (*IdempotentHandler, *cache.InMemoryIdempotencyStore) {
		store := cache.NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })
		return NewIdempotentHandler(inner, store, zap.NewNop()), store
	}

	t.Run("processes first delivery", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"consumable.stock_added"}}
		handler, _ := newHandler(inner)

		err := handler.Handle(context.Background(), newTestEvent("consumable.stock_added"))

		require.NoError(t, err)
		assert.Equal(t, 1, inner.received())
		assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsProcessed)
	})

	t.Run("skips duplicate delivery of the same event", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"consumable.stock_added"}}
		handler, _ := newHandler(inner)
		event := newTestEvent("consumable.stock_added")

		require.NoError(t, handler.Handle(context.Background(), event))
		require.NoError(t, handler.Handle(context.Background(), event))

		assert.Equal(t, 1, inner.received())
		assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsDuplicate)
	})

	t.Run("counts handler failures", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"consumable.stock_added"}, err: errors.New("boom")}
		handler, _ := newHandler(inner)

		err := handler.Handle(context.Background(), newTestEvent("consumable.stock_added"))

		require.Error(t, err)
		assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsFailed)
	})

	t.Run("disabled config bypasses the store", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"consumable.stock_added"}}
		store := cache.NewInMemoryIdempotencyStore()
		t.Cleanup(func() { _ = store.Close() })

		handler := NewIdempotentHandler(inner, store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false, TTL: time.Hour}),
		)
		event := newTestEvent("consumable.stock_added")

		require.NoError(t, handler.Handle(context.Background(), event))
		require.NoError(t, handler.Handle(context.Background(), event))

		assert.Equal(t, 2, inner.received())
	})

	t.Run("exposes wrapped handler event types", func(t *testing.T) {
		inner := &recordingHandler{types: []string{"consumable.stock_below_threshold"}}
		handler, _ := newHandler(inner)

		assert.Equal(t, []string{"consumable.stock_below_threshold"}, handler.EventTypes())
	})
}
