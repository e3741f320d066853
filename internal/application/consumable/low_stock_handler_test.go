package consumable

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

type recordingNotifier struct {
	alerts []LowStockAlert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert LowStockAlert) error {
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func TestLowStockHandler_Handle(t *testing.T) {
	newEvent := func(t *testing.T) *consumable.StockBelowThresholdEvent {
		t.Helper()
		c, err := consumable.NewConsumable("Nitrile Gloves", uuid.New())
		require.NoError(t, err)
		c.Quantity = 3
		c.MinQuantity = 5
		return consumable.NewStockBelowThresholdEvent(c)
	}

	t.Run("forwards an alert", func(t *testing.T) {
		notifier := &recordingNotifier{}
		handler := NewLowStockHandler(zap.NewNop()).WithNotifier(notifier)

		err := handler.Handle(context.Background(), newEvent(t))

		require.NoError(t, err)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, "Nitrile Gloves", notifier.alerts[0].Name)
		assert.Equal(t, int64(3), notifier.alerts[0].Quantity)
		assert.Equal(t, int64(5), notifier.alerts[0].MinQuantity)
	})

	t.Run("works without a notifier", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop())

		require.NoError(t, handler.Handle(context.Background(), newEvent(t)))
	})

	t.Run("rejects foreign event types", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop())
		event := shared.NewBaseDomainEvent("SomethingElse", "Other", uuid.New())

		err := handler.Handle(context.Background(), &event)

		require.Error(t, err)
	})

	t.Run("subscribes to the threshold event only", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop())

		assert.Equal(t, []string{consumable.EventTypeStockBelowThreshold}, handler.EventTypes())
	})
}
