package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/labstock/backend/internal/application/partner"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
)

// VendorHandler handles vendor endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *partnerapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *partnerapp.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// Create registers a new vendor
func (h *VendorHandler) Create(c *gin.Context) {
	var req partnerapp.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.vendorService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a vendor by ID
func (h *VendorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	resp, err := h.vendorService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update modifies a vendor's details
func (h *VendorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	var req partnerapp.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.vendorService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a vendor as inactive
func (h *VendorHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	if err := h.vendorService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate marks a vendor as active again
func (h *VendorHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	if err := h.vendorService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List returns a paginated list of vendors
func (h *VendorHandler) List(c *gin.Context) {
	var filter partnerapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.vendorService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
