package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/partner"
	"github.com/labstock/backend/internal/domain/shared"
)

// MemberService handles lab member management
type MemberService struct {
	memberRepo partner.MemberRepository
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo partner.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// Create registers a new lab member
func (s *MemberService) Create(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error) {
	if req.Email != "" {
		existing, err := s.memberRepo.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.ErrAlreadyExists
		}
	}

	member, err := partner.NewMember(req.Name, req.Email, partner.MemberRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	resp := ToMemberResponse(member)
	return &resp, nil
}

// Get returns a single lab member
func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMemberResponse(member)
	return &resp, nil
}

// Update changes a member's name and email
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := member.Update(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	resp := ToMemberResponse(member)
	return &resp, nil
}

// Deactivate marks a member inactive. Ledger entries keep referring to them.
func (s *MemberService) Deactivate(ctx context.Context, id uuid.UUID) error {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	member.Deactivate()
	return s.memberRepo.Save(ctx, member)
}

// List returns members matching the filter
func (s *MemberService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[MemberResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search

	members, err := s.memberRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.memberRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]MemberResponse, 0, len(members))
	for i := range members {
		items = append(items, ToMemberResponse(&members[i]))
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}
