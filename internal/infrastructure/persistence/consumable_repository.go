package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// pgUniqueViolation is the Postgres error code for unique_violation
const pgUniqueViolation = "23505"

// GormConsumableRepository implements ConsumableRepository using GORM
type GormConsumableRepository struct {
	db *gorm.DB
}

// NewGormConsumableRepository creates a new GormConsumableRepository
func NewGormConsumableRepository(db *gorm.DB) *GormConsumableRepository {
	return &GormConsumableRepository{db: db}
}

// FindByID finds a consumable by its ID
func (r *GormConsumableRepository) FindByID(ctx context.Context, id uuid.UUID) (*consumable.Consumable, error) {
	var c consumable.Consumable
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForUpdate finds a consumable and takes a row lock held until the
// enclosing transaction commits or rolls back
func (r *GormConsumableRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*consumable.Consumable, error) {
	var c consumable.Consumable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByNameAndCategory finds a consumable by its display name within a category
func (r *GormConsumableRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*consumable.Consumable, error) {
	var c consumable.Consumable
	if err := r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCategory finds all consumables in a category
func (r *GormConsumableRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]consumable.Consumable, error) {
	var items []consumable.Consumable
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&consumable.Consumable{}).
			Where("category_id = ?", categoryID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds consumables matching the filter
func (r *GormConsumableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]consumable.Consumable, error) {
	var items []consumable.Consumable
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&consumable.Consumable{}),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum finds consumables below their alert threshold
func (r *GormConsumableRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]consumable.Consumable, error) {
	var items []consumable.Consumable
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&consumable.Consumable{}).
			Where("min_quantity > 0 AND (quantity - claimed_quantity) < min_quantity"),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a consumable. A unique violation on the
// name/category index is surfaced as ALREADY_EXISTS.
func (r *GormConsumableRepository) Save(ctx context.Context, c *consumable.Consumable) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a consumable record
func (r *GormConsumableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&consumable.Consumable{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts consumables matching the filter
func (r *GormConsumableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&consumable.Consumable{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormConsumableRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormConsumableRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND (quantity - claimed_quantity) < min_quantity")
			}
		case "has_stock":
			if value == true {
				query = query.Where("quantity - claimed_quantity > 0")
			}
		}
	}

	return query
}

// Ensure GormConsumableRepository implements ConsumableRepository
var _ consumable.ConsumableRepository = (*GormConsumableRepository)(nil)
