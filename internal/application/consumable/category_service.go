package consumable

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// CategoryService handles consumable category management
type CategoryService struct {
	categoryRepo   consumable.CategoryRepository
	consumableRepo consumable.ConsumableRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo consumable.CategoryRepository,
	consumableRepo consumable.ConsumableRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo:   categoryRepo,
		consumableRepo: consumableRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	category, err := consumable.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.FieldDefs != "" {
		category.SetFieldDefs(req.FieldDefs)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Get returns a single category
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update changes a category's name, description or field definitions
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	description := category.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := category.Update(name, description); err != nil {
		return nil, err
	}
	if req.FieldDefs != nil {
		category.SetFieldDefs(*req.FieldDefs)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Categories that still have consumables cannot
// be deleted.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	f := shared.DefaultFilter()
	f.Filters["category_id"] = id
	count, err := s.consumableRepo.Count(ctx, f)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("INVALID_STATE", "Category still has consumables")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// List returns categories matching the filter
func (s *CategoryService) List(ctx context.Context, page, pageSize int, search string) (*shared.Paginated[CategoryResponse], error) {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.Search = search

	categories, err := s.categoryRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, ToCategoryResponse(&categories[i]))
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}
