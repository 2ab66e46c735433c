package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lilianna-roll/issuance/internal/domain"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   ErrorCode
	}{
		{domain.ErrUnauthorized, http.StatusForbidden, ErrCodeForbidden},
		{domain.ErrCollectionFilled, http.StatusConflict, ErrCodeCollectionFilled},
		{domain.ErrCollectionSizeFixed, http.StatusConflict, ErrCodeCollectionSizeFixed},
		{domain.ErrVoucherRedeemed, http.StatusConflict, ErrCodeVoucherRedeemed},
		{domain.ErrAmountOverflow, http.StatusConflict, ErrCodeAmountOverflow},
		{domain.ErrIncorrectAmount, http.StatusPaymentRequired, ErrCodeIncorrectAmount},
		{domain.ErrInvalidSignature, http.StatusForbidden, ErrCodeInvalidSignature},
		{domain.ErrUnknownToken, http.StatusNotFound, ErrCodeUnknownToken},
		{domain.ErrTransferFailed, http.StatusBadGateway, ErrCodeTransferFailed},
		{domain.ErrInvalidCollectionID, http.StatusBadRequest, ErrCodeValidationFailed},
		{domain.ErrInvalidAddress, http.StatusBadRequest, ErrCodeValidationFailed},
		{domain.ErrInvalidAmount, http.StatusBadRequest, ErrCodeValidationFailed},
		{fmt.Errorf("db: %w", fmt.Errorf("connection reset")), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("operation failed: %w", tt.err)
			apiErr := FromDomainError(wrapped)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestFromDomainError_KeepsAPIError(t *testing.T) {
	original := NewValidationError("size is required")
	assert.Same(t, original, FromDomainError(fmt.Errorf("bind: %w", original)))
}

func TestFromDomainError_HidesInternalDetails(t *testing.T) {
	apiErr := FromDomainError(fmt.Errorf("password=secret"))
	assert.Empty(t, apiErr.Details)
}

func TestAPIError_Error(t *testing.T) {
	apiErr := NewNotFoundError("Token not found", "id 7")
	assert.JSONEq(t, `{"code":"not_found","message":"Token not found","details":"id 7"}`, apiErr.Error())
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
