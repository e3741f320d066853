package consumable

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
)

// Category groups consumables and defines the custom attribute fields its
// members carry. Field definitions are stored as a JSON document.
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
	FieldDefs   string `gorm:"type:jsonb"` // Definitions of per-consumable custom fields
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new consumable category
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update changes name and description
func (c *Category) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetFieldDefs replaces the custom field definitions (JSON document)
func (c *Category) SetFieldDefs(fieldDefs string) {
	c.FieldDefs = fieldDefs
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
