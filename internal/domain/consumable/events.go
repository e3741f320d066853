package consumable

import (
	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeConsumable = "Consumable"

// Event type constants
const (
	EventTypeConsumableCreated   = "ConsumableCreated"
	EventTypeStockAdded          = "StockAdded"
	EventTypeStockIssued         = "StockIssued"
	EventTypeLedgerEntryEdited   = "LedgerEntryEdited"
	EventTypeLedgerEntryDeleted  = "LedgerEntryDeleted"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// ConsumableCreatedEvent is raised when a new consumable record is created
type ConsumableCreatedEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID `json:"consumable_id"`
	Name         string    `json:"name"`
	CategoryID   uuid.UUID `json:"category_id"`
}

// NewConsumableCreatedEvent creates a new ConsumableCreatedEvent
func NewConsumableCreatedEvent(c *Consumable) *ConsumableCreatedEvent {
	return &ConsumableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsumableCreated, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		Name:            c.Name,
		CategoryID:      c.CategoryID,
	}
}

// EventType returns the event type name
func (e *ConsumableCreatedEvent) EventType() string {
	return EventTypeConsumableCreated
}

// StockAddedEvent is raised when stock is received into inventory
type StockAddedEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID `json:"consumable_id"`
	EntryID      uuid.UUID `json:"entry_id"`
	Quantity     int64     `json:"quantity"`
	NewQuantity  int64     `json:"new_quantity"`
}

// NewStockAddedEvent creates a new StockAddedEvent
func NewStockAddedEvent(c *Consumable, entry *LedgerEntry) *StockAddedEvent {
	return &StockAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdded, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		EntryID:         entry.ID,
		Quantity:        entry.Quantity,
		NewQuantity:     c.Quantity,
	}
}

// EventType returns the event type name
func (e *StockAddedEvent) EventType() string {
	return EventTypeStockAdded
}

// StockIssuedEvent is raised when stock is handed out to a lab member
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID `json:"consumable_id"`
	EntryID      uuid.UUID `json:"entry_id"`
	IssueGroupID string    `json:"issue_group_id,omitempty"`
	Quantity     int64     `json:"quantity"`
	Available    int64     `json:"available"`
}

// NewStockIssuedEvent creates a new StockIssuedEvent
func NewStockIssuedEvent(c *Consumable, entry *LedgerEntry) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		EntryID:         entry.ID,
		IssueGroupID:    entry.IssueGroupID,
		Quantity:        entry.Quantity,
		Available:       c.AvailableQuantity(),
	}
}

// EventType returns the event type name
func (e *StockIssuedEvent) EventType() string {
	return EventTypeStockIssued
}

// LedgerEntryEditedEvent is raised after an entry edit and replay succeed
type LedgerEntryEditedEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID `json:"consumable_id"`
	EntryID      uuid.UUID `json:"entry_id"`
	EntryType    EntryType `json:"entry_type"`
	Delta        int64     `json:"delta"`
}

// NewLedgerEntryEditedEvent creates a new LedgerEntryEditedEvent
func NewLedgerEntryEditedEvent(c *Consumable, entry *LedgerEntry, delta int64) *LedgerEntryEditedEvent {
	return &LedgerEntryEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryEdited, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		EntryID:         entry.ID,
		EntryType:       entry.EntryType,
		Delta:           delta,
	}
}

// EventType returns the event type name
func (e *LedgerEntryEditedEvent) EventType() string {
	return EventTypeLedgerEntryEdited
}

// LedgerEntryDeletedEvent is raised after entries are soft-deleted
type LedgerEntryDeletedEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID   `json:"consumable_id"`
	EntryIDs     []uuid.UUID `json:"entry_ids"`
	EntryType    EntryType   `json:"entry_type"`
}

// NewLedgerEntryDeletedEvent creates a new LedgerEntryDeletedEvent
func NewLedgerEntryDeletedEvent(c *Consumable, entryType EntryType, entryIDs []uuid.UUID) *LedgerEntryDeletedEvent {
	return &LedgerEntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryDeleted, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		EntryIDs:        entryIDs,
		EntryType:       entryType,
	}
}

// EventType returns the event type name
func (e *LedgerEntryDeletedEvent) EventType() string {
	return EventTypeLedgerEntryDeleted
}

// StockBelowThresholdEvent is raised when stock crosses below the alert threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ConsumableID uuid.UUID `json:"consumable_id"`
	Name         string    `json:"name"`
	Quantity     int64     `json:"quantity"`
	MinQuantity  int64     `json:"min_quantity"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(c *Consumable) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeConsumable, c.ID),
		ConsumableID:    c.ID,
		Name:            c.Name,
		Quantity:        c.Quantity,
		MinQuantity:     c.MinQuantity,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}
