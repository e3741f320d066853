package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*consumable.LedgerEntry, error) {
	var entry consumable.LedgerEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindActiveByConsumable returns all non-deleted entries for a consumable
// ordered by (transaction_date, created_at) for replay
func (r *GormLedgerEntryRepository) FindActiveByConsumable(ctx context.Context, consumableID uuid.UUID) ([]*consumable.LedgerEntry, error) {
	var entries []*consumable.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("consumable_id = ? AND is_deleted = false", consumableID).
		Order("transaction_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByConsumable returns entries for a consumable matching the filter,
// deleted ones included unless the filter excludes them
func (r *GormLedgerEntryRepository) FindByConsumable(ctx context.Context, consumableID uuid.UUID, filter shared.Filter) ([]consumable.LedgerEntry, error) {
	var entries []consumable.LedgerEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&consumable.LedgerEntry{}).
			Where("consumable_id = ?", consumableID),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindActiveByIssueGroup returns all non-deleted ISSUE entries sharing a group ID
func (r *GormLedgerEntryRepository) FindActiveByIssueGroup(ctx context.Context, groupID string) ([]*consumable.LedgerEntry, error) {
	var entries []*consumable.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("issue_group_id = ? AND entry_type = ? AND is_deleted = false", groupID, consumable.EntryTypeIssue).
		Order("transaction_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ExistsActiveReference reports whether a non-deleted entry of the given type
// already uses the reference number, excluding the entry with excludeID
func (r *GormLedgerEntryRepository) ExistsActiveReference(ctx context.Context, entryType consumable.EntryType, referenceNumber string, excludeID uuid.UUID) (bool, error) {
	if referenceNumber == "" {
		return false, nil
	}

	var count int64
	query := r.db.WithContext(ctx).
		Model(&consumable.LedgerEntry{}).
		Where("entry_type = ? AND reference_number = ? AND is_deleted = false", entryType, referenceNumber)

	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *consumable.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// SaveAll persists multiple entries
func (r *GormLedgerEntryRepository) SaveAll(ctx context.Context, entries []*consumable.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(entries).Error
}

// CountByConsumable counts entries for a consumable matching the filter
func (r *GormLedgerEntryRepository) CountByConsumable(ctx context.Context, consumableID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&consumable.LedgerEntry{}).
			Where("consumable_id = ?", consumableID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("transaction_date DESC, created_at DESC")
	}

	return query
}

func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "entry_type":
			query = query.Where("entry_type = ?", value)
		case "is_deleted":
			query = query.Where("is_deleted = ?", value)
		case "issue_group_id":
			query = query.Where("issue_group_id = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "start_date":
			query = query.Where("transaction_date >= ?", value)
		case "end_date":
			query = query.Where("transaction_date <= ?", value)
		}
	}

	return query
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ consumable.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
