package consumable

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// LowStockHandler reacts to StockBelowThreshold events and forwards an alert
// so someone reorders before the lab runs dry
type LowStockHandler struct {
	logger   *zap.Logger
	notifier LowStockNotifier
}

// LowStockNotifier is the interface for delivering low stock alerts.
// Implementations can support different channels (in-app, email, chat).
type LowStockNotifier interface {
	// Notify delivers one low stock alert
	Notify(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert describes a consumable that fell below its threshold
type LowStockAlert struct {
	ConsumableID string `json:"consumable_id"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	MinQuantity  int64  `json:"min_quantity"`
}

// NewLowStockHandler creates a new handler for stock below threshold events
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// WithNotifier sets the notifier for delivering alerts
func (h *LowStockHandler) WithNotifier(notifier LowStockNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{consumable.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*consumable.StockBelowThresholdEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", consumable.EventTypeStockBelowThreshold),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			consumable.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("consumable below minimum stock",
		zap.String("consumable_id", thresholdEvent.ConsumableID.String()),
		zap.String("name", thresholdEvent.Name),
		zap.Int64("quantity", thresholdEvent.Quantity),
		zap.Int64("min_quantity", thresholdEvent.MinQuantity),
	)

	if h.notifier == nil {
		return nil
	}

	alert := LowStockAlert{
		ConsumableID: thresholdEvent.ConsumableID.String(),
		Name:         thresholdEvent.Name,
		Quantity:     thresholdEvent.Quantity,
		MinQuantity:  thresholdEvent.MinQuantity,
	}
	if err := h.notifier.Notify(ctx, alert); err != nil {
		h.logger.Error("failed to deliver low stock alert",
			zap.String("consumable_id", alert.ConsumableID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Ensure LowStockHandler implements EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
