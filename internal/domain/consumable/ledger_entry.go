package consumable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/labstock/backend/internal/domain/shared"
)

// EntryType represents the direction of a ledger entry
type EntryType string

const (
	// EntryTypeAdd represents stock received into inventory
	EntryTypeAdd EntryType = "ADD"
	// EntryTypeIssue represents stock handed out to a lab member
	EntryTypeIssue EntryType = "ISSUE"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeAdd, EntryTypeIssue:
		return true
	}
	return false
}

// LedgerEntry is one line of a consumable's transaction ledger. Entries are
// never hard-deleted: corrections flip IsDeleted and the ledger is replayed
// so deleted lines stay visible in the audit history.
type LedgerEntry struct {
	shared.BaseEntity
	ConsumableID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_consumable_time,priority:1"`
	EntryType         EntryType       `gorm:"type:varchar(10);not null;index"`
	Quantity          int64           `gorm:"not null"`           // Always positive, direction determined by type
	RemainingQuantity int64           `gorm:"not null;default:0"` // Available quantity after this entry, rewritten on replay
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReferenceNumber   string          `gorm:"type:varchar(100);index"` // PO number for ADD, issue slip number for ISSUE
	IssueGroupID      string          `gorm:"type:varchar(100);index"` // Shared by ISSUE entries from one slip, empty for single issues
	AddedByID         *uuid.UUID      `gorm:"type:uuid"`
	IssuedByID        *uuid.UUID      `gorm:"type:uuid"`
	IssuedToID        *uuid.UUID      `gorm:"type:uuid"`
	VendorID          *uuid.UUID      `gorm:"type:uuid;index"`
	Note              string          `gorm:"type:varchar(255)"`
	IsDeleted         bool            `gorm:"not null;default:false;index"`
	TransactionDate   time.Time       `gorm:"type:timestamptz;not null;index:idx_ledger_consumable_time,priority:2"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewAddEntry creates a ledger entry for stock received into inventory
func NewAddEntry(consumableID uuid.UUID, quantity int64, addedBy uuid.UUID, referenceNumber string) (*LedgerEntry, error) {
	if consumableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONSUMABLE", "Consumable ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if addedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "An ADD entry requires the person who added the stock")
	}

	return &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		ConsumableID:    consumableID,
		EntryType:       EntryTypeAdd,
		Quantity:        quantity,
		ReferenceNumber: referenceNumber,
		AddedByID:       &addedBy,
		TransactionDate: time.Now(),
	}, nil
}

// NewIssueEntry creates a ledger entry for stock handed out. At least one of
// issuedBy and issuedTo must be set.
func NewIssueEntry(consumableID uuid.UUID, quantity int64, issuedBy, issuedTo *uuid.UUID, referenceNumber string) (*LedgerEntry, error) {
	if consumableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONSUMABLE", "Consumable ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if (issuedBy == nil || *issuedBy == uuid.Nil) && (issuedTo == nil || *issuedTo == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_INPUT", "An ISSUE entry requires at least one person reference")
	}

	return &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		ConsumableID:    consumableID,
		EntryType:       EntryTypeIssue,
		Quantity:        quantity,
		ReferenceNumber: referenceNumber,
		IssuedByID:      issuedBy,
		IssuedToID:      issuedTo,
		TransactionDate: time.Now(),
	}, nil
}

// WithUnitPrice sets the unit price recorded on this entry
func (e *LedgerEntry) WithUnitPrice(price decimal.Decimal) *LedgerEntry {
	e.UnitPrice = price
	return e
}

// WithVendorID sets the vendor the stock came from
func (e *LedgerEntry) WithVendorID(vendorID uuid.UUID) *LedgerEntry {
	e.VendorID = &vendorID
	return e
}

// WithNote sets a free-form note
func (e *LedgerEntry) WithNote(note string) *LedgerEntry {
	e.Note = note
	return e
}

// WithTransactionDate overrides the transaction timestamp
func (e *LedgerEntry) WithTransactionDate(date time.Time) *LedgerEntry {
	e.TransactionDate = date
	return e
}

// WithIssueGroupID marks the entry as part of a multi-line issue slip
func (e *LedgerEntry) WithIssueGroupID(groupID string) *LedgerEntry {
	e.IssueGroupID = groupID
	return e
}

// SignedQuantity returns the quantity with sign based on entry type
func (e *LedgerEntry) SignedQuantity() int64 {
	if e.EntryType == EntryTypeIssue {
		return -e.Quantity
	}
	return e.Quantity
}

// IsBatchIssue returns true if this entry was created from a multi-line slip
func (e *LedgerEntry) IsBatchIssue() bool {
	return e.EntryType == EntryTypeIssue && e.IssueGroupID != ""
}

// PersonRefs returns true if at least one person reference is set
func (e *LedgerEntry) PersonRefs() bool {
	has := func(id *uuid.UUID) bool { return id != nil && *id != uuid.Nil }
	return has(e.AddedByID) || has(e.IssuedByID) || has(e.IssuedToID)
}

// SoftDelete marks the entry as deleted. Deleting twice is rejected so a
// stale client cannot decrement the stock totals a second time.
func (e *LedgerEntry) SoftDelete() error {
	if e.IsDeleted {
		return shared.ErrAlreadyDeleted
	}
	e.IsDeleted = true
	e.UpdatedAt = time.Now()
	return nil
}

// ChangeQuantity updates the entry quantity and returns the signed delta the
// stock totals must absorb. Deleted entries cannot be edited.
func (e *LedgerEntry) ChangeQuantity(newQuantity int64) (int64, error) {
	if e.IsDeleted {
		return 0, shared.ErrAlreadyDeleted
	}
	if newQuantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	delta := newQuantity - e.Quantity
	e.Quantity = newQuantity
	e.UpdatedAt = time.Now()
	return delta, nil
}

// ChangeReference updates the entry reference number
func (e *LedgerEntry) ChangeReference(referenceNumber string) error {
	if e.IsDeleted {
		return shared.ErrAlreadyDeleted
	}
	e.ReferenceNumber = referenceNumber
	e.UpdatedAt = time.Now()
	return nil
}

// SetPersonRefs replaces the person references, keeping the invariant that an
// entry always names at least one person
func (e *LedgerEntry) SetPersonRefs(addedBy, issuedBy, issuedTo *uuid.UUID) error {
	if e.IsDeleted {
		return shared.ErrAlreadyDeleted
	}
	has := func(id *uuid.UUID) bool { return id != nil && *id != uuid.Nil }
	if !has(addedBy) && !has(issuedBy) && !has(issuedTo) {
		return shared.NewDomainError("INVALID_INPUT", "A ledger entry requires at least one person reference")
	}
	e.AddedByID = addedBy
	e.IssuedByID = issuedBy
	e.IssuedToID = issuedTo
	e.UpdatedAt = time.Now()
	return nil
}
