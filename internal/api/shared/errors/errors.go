package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lilianna-roll/issuance/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"

	// Engine rejections
	ErrCodeCollectionFilled    ErrorCode = "collection_filled"
	ErrCodeCollectionSizeFixed ErrorCode = "collection_size_fixed"
	ErrCodeIncorrectAmount     ErrorCode = "incorrect_amount"
	ErrCodeInvalidSignature    ErrorCode = "invalid_signature"
	ErrCodeVoucherRedeemed     ErrorCode = "voucher_redeemed"
	ErrCodeUnknownToken        ErrorCode = "unknown_token"
	ErrCodeAmountOverflow      ErrorCode = "amount_overflow"

	// Server errors (5xx)
	ErrCodeInternalError  ErrorCode = "internal_error"
	ErrCodeDatabaseError  ErrorCode = "database_error"
	ErrCodeServiceError   ErrorCode = "service_error"
	ErrCodeTransferFailed ErrorCode = "transfer_failed"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// Status is the HTTP status the error is rendered with
	Status int `json:"-"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

func newError(status int, code ErrorCode, message string, details []string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
		Status:  status,
	}
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return newError(http.StatusBadRequest, ErrCodeBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newError(http.StatusNotFound, ErrCodeNotFound, message, details)
}

func NewValidationError(details ...string) *APIError {
	return newError(http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed", details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newError(http.StatusUnauthorized, ErrCodeUnauthorized, message, details)
}

func NewForbiddenError(message string, details ...string) *APIError {
	return newError(http.StatusForbidden, ErrCodeForbidden, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newError(http.StatusInternalServerError, ErrCodeInternalError, message, details)
}

func NewDatabaseError(message string, details ...string) *APIError {
	return newError(http.StatusInternalServerError, ErrCodeDatabaseError, message, details)
}

func NewServiceError(message string, details ...string) *APIError {
	return newError(http.StatusServiceUnavailable, ErrCodeServiceError, message, details)
}

// domainErrors maps engine sentinels to their API rendering
var domainErrors = []struct {
	target  error
	status  int
	code    ErrorCode
	message string
}{
	{domain.ErrUnauthorized, http.StatusForbidden, ErrCodeForbidden, "Caller is not the administrator"},
	{domain.ErrCollectionFilled, http.StatusConflict, ErrCodeCollectionFilled, "Collection filled"},
	{domain.ErrCollectionSizeFixed, http.StatusConflict, ErrCodeCollectionSizeFixed, "Collection size already fixed"},
	{domain.ErrVoucherRedeemed, http.StatusConflict, ErrCodeVoucherRedeemed, "Voucher already redeemed"},
	{domain.ErrAmountOverflow, http.StatusConflict, ErrCodeAmountOverflow, "Amount overflow"},
	{domain.ErrIncorrectAmount, http.StatusPaymentRequired, ErrCodeIncorrectAmount, "Amount sent is not correct"},
	{domain.ErrInvalidSignature, http.StatusForbidden, ErrCodeInvalidSignature, "Invalid signature"},
	{domain.ErrUnknownToken, http.StatusNotFound, ErrCodeUnknownToken, "Unknown token"},
	{domain.ErrTransferFailed, http.StatusBadGateway, ErrCodeTransferFailed, "Transfer failed"},
	{domain.ErrInvalidCollectionID, http.StatusBadRequest, ErrCodeValidationFailed, "Invalid collection id"},
	{domain.ErrInvalidAddress, http.StatusBadRequest, ErrCodeValidationFailed, "Invalid address"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, ErrCodeValidationFailed, "Invalid amount"},
}

// FromDomainError converts an engine error to an APIError.
// Unrecognized errors become internal errors.
func FromDomainError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return newError(m.status, m.code, m.message, []string{err.Error()})
		}
	}

	return NewInternalError("Internal server error")
}
