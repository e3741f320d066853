package consumable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstock/backend/internal/domain/shared"
)

// Consumable represents the stock record for one lab consumable.
// It is the aggregate root for all stock operations. Quantity and
// ClaimedQuantity are never written directly by callers - they change only
// through ledger operations so that the ledger always explains the totals.
type Consumable struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_consumable_name_category,priority:1"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consumable_name_category,priority:2;index"`
	Unit            string          `gorm:"type:varchar(30)"`
	Quantity        int64           `gorm:"not null;default:0"` // Sum of active ADD entries
	ClaimedQuantity int64           `gorm:"not null;default:0"` // Sum of active ISSUE entries
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity     int64           `gorm:"not null;default:0"` // Low stock threshold, 0 disables alerts
	Attributes      string          `gorm:"type:jsonb"`         // Category-defined custom attributes
}

// TableName returns the table name for GORM
func (Consumable) TableName() string {
	return "consumables"
}

// NewConsumable creates a new consumable stock record with zero quantities
func NewConsumable(name string, categoryID uuid.UUID) (*Consumable, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Consumable name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	c := &Consumable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CategoryID:        categoryID,
		Quantity:          0,
		ClaimedQuantity:   0,
		UnitPrice:         decimal.Zero,
	}
	c.AddDomainEvent(NewConsumableCreatedEvent(c))

	return c, nil
}

// AvailableQuantity returns the quantity not yet claimed by issues
func (c *Consumable) AvailableQuantity() int64 {
	return c.Quantity - c.ClaimedQuantity
}

// TotalCost returns the value of the full stock at the current unit price
func (c *Consumable) TotalCost() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity))
}

// ApplyQuantityDelta shifts total quantity by delta, positive or negative.
// Rejects any state where quantity goes negative or below the claimed amount.
func (c *Consumable) ApplyQuantityDelta(delta int64) error {
	next := c.Quantity + delta
	if next < 0 {
		return shared.NewDomainError("INVALID_STATE", "Quantity cannot go negative")
	}
	if next < c.ClaimedQuantity {
		return shared.NewDomainError("INVALID_STATE", "Quantity cannot drop below claimed quantity")
	}

	wasAbove := c.MinQuantity == 0 || c.Quantity >= c.MinQuantity
	c.Quantity = next
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if wasAbove && c.MinQuantity > 0 && c.Quantity < c.MinQuantity {
		c.AddDomainEvent(NewStockBelowThresholdEvent(c))
	}

	return nil
}

// ApplyClaimedDelta shifts the claimed quantity by delta, positive or negative.
// Rejects any state where claimed goes negative or above the total quantity.
func (c *Consumable) ApplyClaimedDelta(delta int64) error {
	next := c.ClaimedQuantity + delta
	if next < 0 {
		return shared.NewDomainError("INVALID_STATE", "Claimed quantity cannot go negative")
	}
	if next > c.Quantity {
		return shared.NewDomainError("INVALID_STATE", "Claimed quantity cannot exceed total quantity")
	}

	c.ClaimedQuantity = next
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetUnitPrice updates the unit price used for stock valuation
func (c *Consumable) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	c.UnitPrice = price
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetMinQuantity updates the low stock alert threshold
func (c *Consumable) SetMinQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	c.MinQuantity = quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Rename changes the display name
func (c *Consumable) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Consumable name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetAttributes replaces the category-defined custom attributes (JSON document)
func (c *Consumable) SetAttributes(attributes string) {
	c.Attributes = attributes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsBelowMinimum returns true if stock has fallen below the alert threshold
func (c *Consumable) IsBelowMinimum() bool {
	return c.MinQuantity > 0 && c.Quantity < c.MinQuantity
}

// CanFulfill returns true if the requested quantity can still be claimed
func (c *Consumable) CanFulfill(quantity int64) bool {
	return quantity > 0 && c.AvailableQuantity() >= quantity
}
