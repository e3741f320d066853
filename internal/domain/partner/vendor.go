package partner

import (
	"strings"
	"time"

	"github.com/labstock/backend/internal/domain/shared"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// Vendor represents a supplier of lab consumables
// It is the aggregate root for vendor-related operations
type Vendor struct {
	shared.BaseAggregateRoot
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Status      VendorStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string       `gorm:"type:varchar(100)"`
	Phone       string       `gorm:"type:varchar(50);index"`
	Email       string       `gorm:"type:varchar(200);index"`
	Address     string       `gorm:"type:text"`
	Notes       string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor with required fields
func NewVendor(code, name string) (*Vendor, error) {
	if err := validateVendorCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}

	vendor := &Vendor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            VendorStatusActive,
	}
	vendor.AddDomainEvent(NewVendorCreatedEvent(vendor))

	return vendor, nil
}

// Update updates the vendor's basic information
func (v *Vendor) Update(name, contactName, phone, email, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	v.Name = name
	v.ContactName = contactName
	v.Phone = phone
	v.Email = email
	v.Address = address
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Deactivate marks the vendor inactive, blocking new ADD entries against it
func (v *Vendor) Deactivate() error {
	if v.Status == VendorStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Vendor is already inactive")
	}
	v.Status = VendorStatusInactive
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Activate re-enables an inactive vendor
func (v *Vendor) Activate() error {
	if v.Status == VendorStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Vendor is already active")
	}
	v.Status = VendorStatusActive
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// IsActive returns true if the vendor can be used on new entries
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

func validateVendorCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Vendor code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Vendor code cannot exceed 50 characters")
	}
	return nil
}
