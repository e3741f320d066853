package consumable

import (
	"context"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/consumable"
	"github.com/labstock/backend/internal/domain/shared"
)

// ConsumableService handles consumable record management. Stock quantities
// are owned by the LedgerService; this service covers everything else about
// the record.
type ConsumableService struct {
	consumableRepo consumable.ConsumableRepository
	categoryRepo   consumable.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewConsumableService creates a new ConsumableService
func NewConsumableService(
	consumableRepo consumable.ConsumableRepository,
	categoryRepo consumable.CategoryRepository,
) *ConsumableService {
	return &ConsumableService{
		consumableRepo: consumableRepo,
		categoryRepo:   categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ConsumableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new consumable record with zero stock
func (s *ConsumableService) Create(ctx context.Context, req CreateConsumableRequest) (*ConsumableResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if existing, err := s.consumableRepo.FindByNameAndCategory(ctx, req.Name, req.CategoryID); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	c, err := consumable.NewConsumable(req.Name, req.CategoryID)
	if err != nil {
		return nil, err
	}
	c.Unit = req.Unit
	if req.UnitPrice != nil {
		if err := c.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.MinQuantity != nil {
		if err := c.SetMinQuantity(*req.MinQuantity); err != nil {
			return nil, err
		}
	}
	if req.Attributes != "" {
		c.SetAttributes(req.Attributes)
	}

	if err := s.consumableRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, c)

	resp := ToConsumableResponse(c)
	return &resp, nil
}

// Get returns a single consumable record
func (s *ConsumableService) Get(ctx context.Context, id uuid.UUID) (*ConsumableResponse, error) {
	c, err := s.consumableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToConsumableResponse(c)
	return &resp, nil
}

// Update changes a consumable's descriptive fields. Quantities cannot be
// touched here.
func (s *ConsumableService) Update(ctx context.Context, id uuid.UUID, req UpdateConsumableRequest) (*ConsumableResponse, error) {
	c, err := s.consumableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil {
		c.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		if err := c.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.MinQuantity != nil {
		if err := c.SetMinQuantity(*req.MinQuantity); err != nil {
			return nil, err
		}
	}
	if req.Attributes != nil {
		c.SetAttributes(*req.Attributes)
	}

	if err := s.consumableRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToConsumableResponse(c)
	return &resp, nil
}

// Delete removes a consumable record. The ledger history stays behind for
// auditing.
func (s *ConsumableService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.consumableRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.consumableRepo.Delete(ctx, id)
}

// List returns consumables matching the filter
func (s *ConsumableService) List(ctx context.Context, filter ConsumableListFilter) (*shared.Paginated[ConsumableResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.CategoryID != nil {
		f.Filters["category_id"] = *filter.CategoryID
	}

	var (
		items []consumable.Consumable
		err   error
	)
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		items, err = s.consumableRepo.FindBelowMinimum(ctx, f)
	} else {
		items, err = s.consumableRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.consumableRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	responses := make([]ConsumableResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToConsumableResponse(&items[i]))
	}
	result := shared.NewPaginated(responses, total, f.Page, f.PageSize)
	return &result, nil
}

func (s *ConsumableService) publishEvents(ctx context.Context, c *consumable.Consumable) {
	if s.eventPublisher == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	c.ClearDomainEvents()
}
