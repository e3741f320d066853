package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/labstock/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	types  []string
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "consumable", uuid.New())
	return &e
}

func TestInMemoryEventBus_PublishAndSubscribe(t *testing.T) {
	t.Run("delivers to handler subscribed to the type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"consumable.stock_added"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("consumable.stock_added"))

		require.NoError(t, err)
		assert.Equal(t, 1, handler.received())
	})

	t.Run("does not deliver other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"consumable.stock_added"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("consumable.stock_issued"))

		require.NoError(t, err)
		assert.Equal(t, 0, handler.received())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			newTestEvent("consumable.stock_added"),
			newTestEvent("consumable.stock_issued"),
		)

		require.NoError(t, err)
		assert.Equal(t, 2, handler.received())
	})

	t.Run("handler error does not block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"consumable.stock_added"}, err: errors.New("boom")}
		ok := &recordingHandler{types: []string{"consumable.stock_added"}}
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		err := bus.Publish(context.Background(), newTestEvent("consumable.stock_added"))

		require.NoError(t, err)
		assert.Equal(t, 1, ok.received())
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"consumable.stock_added"}, panics: true}
		bus.Subscribe(panicking)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("consumable.stock_added"))
		})
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"consumable.stock_added"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("consumable.stock_added"))

		require.NoError(t, err)
		assert.Equal(t, 0, handler.received())
	})
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
}
