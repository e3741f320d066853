package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	consumableapp "github.com/labstock/backend/internal/application/consumable"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
)

// ConsumableHandler handles consumable stock record endpoints
type ConsumableHandler struct {
	BaseHandler
	consumableService *consumableapp.ConsumableService
}

// NewConsumableHandler creates a new ConsumableHandler
func NewConsumableHandler(consumableService *consumableapp.ConsumableService) *ConsumableHandler {
	return &ConsumableHandler{
		consumableService: consumableService,
	}
}

// Create registers a new consumable record
func (h *ConsumableHandler) Create(c *gin.Context) {
	var req consumableapp.CreateConsumableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.consumableService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a consumable by ID
func (h *ConsumableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid consumable ID format")
		return
	}

	resp, err := h.consumableService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update modifies descriptive fields of a consumable
func (h *ConsumableHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid consumable ID format")
		return
	}

	var req consumableapp.UpdateConsumableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.consumableService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a consumable record
func (h *ConsumableHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid consumable ID format")
		return
	}

	if err := h.consumableService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List returns a paginated list of consumables
func (h *ConsumableHandler) List(c *gin.Context) {
	var filter consumableapp.ConsumableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.consumableService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListLowStock returns consumables whose available quantity is below their threshold
func (h *ConsumableHandler) ListLowStock(c *gin.Context) {
	var filter consumableapp.ConsumableListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	belowMinimum := true
	filter.BelowMinimum = &belowMinimum

	result, err := h.consumableService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
