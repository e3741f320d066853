package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already deleted maps to conflict", ErrCodeAlreadyDeleted, http.StatusConflict},
		{"duplicate reference maps to conflict", ErrCodeDuplicateReference, http.StatusConflict},
		{"reconciliation failure is unprocessable", ErrCodeReconciliationFailed, http.StatusUnprocessableEntity},
		{"insufficient stock is unprocessable", ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"unknown code falls back to 500", "ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyDeleted, NormalizeErrorCode("ALREADY_DELETED"))
	assert.Equal(t, ErrCodeReconciliationFailed, NormalizeErrorCode("RECONCILIATION_FAILED"))
	assert.Equal(t, ErrCodeDuplicateReference, NormalizeErrorCode("DUPLICATE_REFERENCE"))
	// Codes already in API format pass through untouched.
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM", NormalizeErrorCode("CUSTOM"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "quantity", Message: "Must be greater than 0"},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
