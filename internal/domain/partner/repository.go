package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/shared"
)

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindByCode(ctx context.Context, code string) (*Vendor, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MemberRepository defines the interface for lab member persistence
type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
