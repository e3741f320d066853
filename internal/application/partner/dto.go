package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/labstock/backend/internal/domain/partner"
)

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToVendorResponse converts a domain vendor to a response DTO
func ToVendorResponse(v *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		Code:        v.Code,
		Name:        v.Name,
		Status:      string(v.Status),
		ContactName: v.ContactName,
		Phone:       v.Phone,
		Email:       v.Email,
		Address:     v.Address,
		Notes:       v.Notes,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// CreateVendorRequest represents a request to register a vendor
type CreateVendorRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

// UpdateVendorRequest represents a request to update a vendor
type UpdateVendorRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Address     string `json:"address"`
}

// MemberResponse represents a lab member in API responses
type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToMemberResponse converts a domain member to a response DTO
func ToMemberResponse(m *partner.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      string(m.Role),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CreateMemberRequest represents a request to register a lab member
type CreateMemberRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Role  string `json:"role" binding:"required,oneof=manager researcher"`
}

// UpdateMemberRequest represents a request to update a lab member
type UpdateMemberRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
}

// ListFilter represents common pagination options for partner listings
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
