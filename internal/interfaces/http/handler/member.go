package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/labstock/backend/internal/application/partner"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles lab member endpoints
type MemberHandler struct {
	BaseHandler
	memberService *partnerapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *partnerapp.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// Create registers a new lab member
func (h *MemberHandler) Create(c *gin.Context) {
	var req partnerapp.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get retrieves a member by ID
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	resp, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update modifies a member's details
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	var req partnerapp.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a member as inactive
func (h *MemberHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	if err := h.memberService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List returns a paginated list of members
func (h *MemberHandler) List(c *gin.Context) {
	var filter partnerapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
