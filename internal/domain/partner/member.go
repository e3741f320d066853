package partner

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
)

// MemberRole represents a lab member's role
type MemberRole string

const (
	MemberRoleManager    MemberRole = "manager"    // Can add and issue stock
	MemberRoleResearcher MemberRole = "researcher" // Can receive issued stock
)

// Member represents a person in the lab who appears on ledger entries,
// either as the one handling the stock or the one receiving it
type Member struct {
	shared.BaseAggregateRoot
	Name   string     `gorm:"type:varchar(100);not null"`
	Email  string     `gorm:"type:varchar(200);uniqueIndex"`
	Role   MemberRole `gorm:"type:varchar(20);not null;default:'researcher'"`
	Active bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "members"
}

// NewMember creates a new lab member
func NewMember(name, email string, role MemberRole) (*Member, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	if role != MemberRoleManager && role != MemberRoleResearcher {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown member role")
	}

	return &Member{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Role:              role,
		Active:            true,
	}, nil
}

// Update changes the member's name and email
func (m *Member) Update(name, email string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Member name cannot be empty")
	}
	m.Name = name
	m.Email = email
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Deactivate marks the member inactive. Existing ledger references stay valid.
func (m *Member) Deactivate() {
	m.Active = false
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
