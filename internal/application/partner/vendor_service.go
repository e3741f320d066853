package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/partner"
	"github.com/labstock/backend/internal/domain/shared"
)

// VendorService handles vendor management
type VendorService struct {
	vendorRepo     partner.VendorRepository
	eventPublisher shared.EventPublisher
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo partner.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VendorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new vendor
func (s *VendorService) Create(ctx context.Context, req CreateVendorRequest) (*VendorResponse, error) {
	existing, err := s.vendorRepo.FindByCode(ctx, strings.ToUpper(req.Code))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	vendor, err := partner.NewVendor(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	vendor.ContactName = req.ContactName
	vendor.Phone = req.Phone
	vendor.Email = req.Email
	vendor.Address = req.Address
	vendor.Notes = req.Notes

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, vendor.GetDomainEvents()...)
		vendor.ClearDomainEvents()
	}

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Get returns a single vendor
func (s *VendorService) Get(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Update changes a vendor's contact information
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := vendor.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Deactivate marks a vendor inactive
func (s *VendorService) Deactivate(ctx context.Context, id uuid.UUID) error {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := vendor.Deactivate(); err != nil {
		return err
	}
	return s.vendorRepo.Save(ctx, vendor)
}

// Activate re-enables an inactive vendor
func (s *VendorService) Activate(ctx context.Context, id uuid.UUID) error {
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := vendor.Activate(); err != nil {
		return err
	}
	return s.vendorRepo.Save(ctx, vendor)
}

// List returns vendors matching the filter
func (s *VendorService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[VendorResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	vendors, err := s.vendorRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.vendorRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		items = append(items, ToVendorResponse(&vendors[i]))
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}
