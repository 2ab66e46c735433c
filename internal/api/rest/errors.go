package rest

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/lilianna-roll/issuance/internal/api/shared/errors"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondAPIError(c, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	respondAPIError(c, apierrors.NewValidationError(message))
}

// respondUnauthorized responds when no caller identity is attached
func respondUnauthorized(c *gin.Context) {
	respondAPIError(c, apierrors.NewUnauthorizedError("Authentication required"))
}

// respondError renders err, which is expected to be an *APIError
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.FromDomainError(err)
	}
	respondAPIError(c, apiErr)
}

func respondAPIError(c *gin.Context, apiErr *apierrors.APIError) {
	c.JSON(apiErr.Status, apiErr)
}
