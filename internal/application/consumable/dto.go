package consumable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstock/backend/internal/domain/consumable"
)

// ConsumableResponse represents a consumable stock record in API responses
type ConsumableResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	CategoryID        uuid.UUID       `json:"category_id"`
	Unit              string          `json:"unit,omitempty"`
	Quantity          int64           `json:"quantity"`
	ClaimedQuantity   int64           `json:"claimed_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	MinQuantity       int64           `json:"min_quantity"`
	IsBelowMinimum    bool            `json:"is_below_minimum"`
	Attributes        string          `json:"attributes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToConsumableResponse converts a domain consumable to a response DTO
func ToConsumableResponse(c *consumable.Consumable) ConsumableResponse {
	return ConsumableResponse{
		ID:                c.ID,
		Name:              c.Name,
		CategoryID:        c.CategoryID,
		Unit:              c.Unit,
		Quantity:          c.Quantity,
		ClaimedQuantity:   c.ClaimedQuantity,
		AvailableQuantity: c.AvailableQuantity(),
		UnitPrice:         c.UnitPrice,
		TotalCost:         c.TotalCost(),
		MinQuantity:       c.MinQuantity,
		IsBelowMinimum:    c.IsBelowMinimum(),
		Attributes:        c.Attributes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		Version:           c.Version,
	}
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID                uuid.UUID       `json:"id"`
	ConsumableID      uuid.UUID       `json:"consumable_id"`
	EntryType         string          `json:"entry_type"`
	Quantity          int64           `json:"quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ReferenceNumber   string          `json:"reference_number,omitempty"`
	IssueGroupID      string          `json:"issue_group_id,omitempty"`
	AddedByID         *uuid.UUID      `json:"added_by_id,omitempty"`
	IssuedByID        *uuid.UUID      `json:"issued_by_id,omitempty"`
	IssuedToID        *uuid.UUID      `json:"issued_to_id,omitempty"`
	VendorID          *uuid.UUID      `json:"vendor_id,omitempty"`
	Note              string          `json:"note,omitempty"`
	IsDeleted         bool            `json:"is_deleted"`
	TransactionDate   time.Time       `json:"transaction_date"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse converts a domain ledger entry to a response DTO
func ToLedgerEntryResponse(e *consumable.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                e.ID,
		ConsumableID:      e.ConsumableID,
		EntryType:         e.EntryType.String(),
		Quantity:          e.Quantity,
		RemainingQuantity: e.RemainingQuantity,
		UnitPrice:         e.UnitPrice,
		ReferenceNumber:   e.ReferenceNumber,
		IssueGroupID:      e.IssueGroupID,
		AddedByID:         e.AddedByID,
		IssuedByID:        e.IssuedByID,
		IssuedToID:        e.IssuedToID,
		VendorID:          e.VendorID,
		Note:              e.Note,
		IsDeleted:         e.IsDeleted,
		TransactionDate:   e.TransactionDate,
		CreatedAt:         e.CreatedAt,
	}
}

// AddStockRequest represents a request to record received stock
type AddStockRequest struct {
	ConsumableID    *uuid.UUID       `json:"consumable_id"`
	Name            string           `json:"name"`        // Used with CategoryID when ConsumableID is absent
	CategoryID      *uuid.UUID       `json:"category_id"` //
	Quantity        int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	AddedByID       uuid.UUID        `json:"added_by_id"` // Defaults to the authenticated user
	VendorID        *uuid.UUID       `json:"vendor_id"`
	ReferenceNumber string           `json:"reference_number"`
	Note            string           `json:"note"`
	TransactionDate *time.Time       `json:"transaction_date"`
}

// IssueLine is one consumable line on an issue slip
type IssueLine struct {
	ConsumableID uuid.UUID `json:"consumable_id" binding:"required"`
	Quantity     int64     `json:"quantity" binding:"required,gt=0"`
}

// IssueStockRequest represents a request to issue stock to a lab member.
// A request with more than one line becomes a batch: its entries share an
// issue group ID and are deleted together.
type IssueStockRequest struct {
	Lines           []IssueLine `json:"lines" binding:"required,min=1,dive"`
	IssuedByID      *uuid.UUID  `json:"issued_by_id"`
	IssuedToID      *uuid.UUID  `json:"issued_to_id"`
	ReferenceNumber string      `json:"reference_number"`
	Note            string      `json:"note"`
	TransactionDate *time.Time  `json:"transaction_date"`
}

// EditEntryRequest represents a request to edit a ledger entry
type EditEntryRequest struct {
	Quantity        *int64     `json:"quantity" binding:"omitempty,gt=0"`
	ReferenceNumber *string    `json:"reference_number"`
	AddedByID       *uuid.UUID `json:"added_by_id"`
	IssuedByID      *uuid.UUID `json:"issued_by_id"`
	IssuedToID      *uuid.UUID `json:"issued_to_id"`
	Note            *string    `json:"note"`
}

// LedgerListFilter represents filter options for ledger listings
type LedgerListFilter struct {
	EntryType      string `form:"entry_type" binding:"omitempty,oneof=ADD ISSUE"`
	IncludeDeleted bool   `form:"include_deleted"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateConsumableRequest represents a request to create a consumable record
type CreateConsumableRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	CategoryID  uuid.UUID        `json:"category_id" binding:"required"`
	Unit        string           `json:"unit" binding:"omitempty,max=30"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	MinQuantity *int64           `json:"min_quantity" binding:"omitempty,gte=0"`
	Attributes  string           `json:"attributes"`
}

// UpdateConsumableRequest represents a request to update a consumable record
type UpdateConsumableRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Unit        *string          `json:"unit" binding:"omitempty,max=30"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	MinQuantity *int64           `json:"min_quantity" binding:"omitempty,gte=0"`
	Attributes  *string          `json:"attributes"`
}

// ConsumableListFilter represents filter options for consumable listings
type ConsumableListFilter struct {
	Search       string     `form:"search"`
	CategoryID   *uuid.UUID `form:"category_id"`
	BelowMinimum *bool      `form:"below_minimum"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	FieldDefs   string    `json:"field_defs,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *consumable.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		FieldDefs:   c.FieldDefs,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	FieldDefs   string `json:"field_defs"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	FieldDefs   *string `json:"field_defs"`
}
