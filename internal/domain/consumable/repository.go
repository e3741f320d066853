package consumable

import (
	"context"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/shared"
)

// ConsumableRepository defines the interface for consumable persistence
type ConsumableRepository interface {
	// FindByID finds a consumable by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Consumable, error)

	// FindByIDForUpdate finds a consumable and takes a row lock for the
	// duration of the enclosing transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Consumable, error)

	// FindByNameAndCategory finds a consumable by its display name within a category
	FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*Consumable, error)

	// FindByCategory finds all consumables in a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Consumable, error)

	// FindAll finds consumables matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Consumable, error)

	// FindBelowMinimum finds consumables below their alert threshold
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]Consumable, error)

	// Save creates or updates a consumable
	Save(ctx context.Context, c *Consumable) error

	// Delete deletes a consumable record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts consumables matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// LedgerEntryRepository defines the interface for ledger entry persistence
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindActiveByConsumable returns all non-deleted entries for a consumable
	// ordered by (transaction_date, created_at) for replay
	FindActiveByConsumable(ctx context.Context, consumableID uuid.UUID) ([]*LedgerEntry, error)

	// FindByConsumable returns entries for a consumable, deleted ones included,
	// matching the filter
	FindByConsumable(ctx context.Context, consumableID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindActiveByIssueGroup returns all non-deleted ISSUE entries sharing a group ID
	FindActiveByIssueGroup(ctx context.Context, groupID string) ([]*LedgerEntry, error)

	// ExistsActiveReference reports whether a non-deleted entry of the given type
	// already uses the reference number, excluding the entry with excludeID
	ExistsActiveReference(ctx context.Context, entryType EntryType, referenceNumber string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveAll persists multiple entries
	SaveAll(ctx context.Context, entries []*LedgerEntry) error

	// CountByConsumable counts entries for a consumable matching the filter
	CountByConsumable(ctx context.Context, consumableID uuid.UUID, filter shared.Filter) (int64, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its unique name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindAll finds categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
