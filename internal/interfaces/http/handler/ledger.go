package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	consumableapp "github.com/labstock/backend/internal/application/consumable"
	"github.com/labstock/backend/internal/interfaces/http/middleware"
)

// LedgerHandler handles transaction ledger endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *consumableapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *consumableapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// AddStock records received stock, creating the consumable on first receipt.
// When the request omits added_by_id the authenticated user is recorded.
func (h *LedgerHandler) AddStock(c *gin.Context) {
	var req consumableapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.AddedByID == uuid.Nil {
		if actor, err := getUserID(c); err == nil {
			req.AddedByID = actor
		}
	}

	resp, err := h.ledgerService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// IssueStock issues stock to a lab member; multi-line requests become a batch
// slip. When the request omits issued_by_id the authenticated user is recorded.
func (h *LedgerHandler) IssueStock(c *gin.Context) {
	var req consumableapp.IssueStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.IssuedByID == nil || *req.IssuedByID == uuid.Nil {
		if actor, err := getUserID(c); err == nil {
			req.IssuedByID = &actor
		}
	}

	entries, err := h.ledgerService.IssueStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entries)
}

// GetEntry retrieves a single ledger entry
func (h *LedgerHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	resp, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// EditEntry corrects a ledger entry and replays the consumable's history
func (h *LedgerHandler) EditEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	var req consumableapp.EditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.EditEntry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteEntry soft-deletes a ledger entry and replays the consumable's history.
// Deleting one entry of a batch issue slip removes all entries in the batch.
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListLedger returns the ledger history for a consumable
func (h *LedgerHandler) ListLedger(c *gin.Context) {
	consumableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid consumable ID format")
		return
	}

	var filter consumableapp.LedgerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.ledgerService.ListLedger(c.Request.Context(), consumableID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
