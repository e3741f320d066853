package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstock/backend/internal/domain/partner"
	"github.com/labstock/backend/internal/domain/shared"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindByCode finds a vendor by its unique code
func (r *GormVendorRepository) FindByCode(ctx context.Context, code string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// FindAll finds vendors matching the filter
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Vendor, error) {
	var vendors []partner.Vendor
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Vendor{}),
		filter,
	)

	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// Delete deletes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts vendors matching the filter
func (r *GormVendorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&partner.Vendor{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormVendorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

func (r *GormVendorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormVendorRepository implements VendorRepository
var _ partner.VendorRepository = (*GormVendorRepository)(nil)
