package partner

import (
	"github.com/labstock/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeVendor = "Vendor"
	AggregateTypeMember = "Member"
)

// Event type constants
const (
	EventTypeVendorCreated = "VendorCreated"
)

// VendorCreatedEvent is raised when a new vendor is registered
type VendorCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewVendorCreatedEvent creates a new VendorCreatedEvent
func NewVendorCreatedEvent(v *Vendor) *VendorCreatedEvent {
	return &VendorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVendorCreated, AggregateTypeVendor, v.ID),
		Code:            v.Code,
		Name:            v.Name,
	}
}

// EventType returns the event type name
func (e *VendorCreatedEvent) EventType() string {
	return EventTypeVendorCreated
}
