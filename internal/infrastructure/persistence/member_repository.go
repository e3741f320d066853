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

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Member, error) {
	var member partner.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByIDs finds multiple members by their IDs
func (r *GormMemberRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Member, error) {
	if len(ids) == 0 {
		return []partner.Member{}, nil
	}

	var members []partner.Member
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindByEmail finds a member by email
func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*partner.Member, error) {
	var member partner.Member
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindAll finds members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Member, error) {
	var members []partner.Member
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&partner.Member{}),
		filter,
	)

	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *partner.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete deletes a member
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&partner.Member{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("name ASC")
	}

	return query
}

func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ partner.MemberRepository = (*GormMemberRepository)(nil)
