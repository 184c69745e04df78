package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

// kindOf collapses a usecase error to its stable wire kind.
func kindOf(err error) string {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return "not_found"
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, usecase.ErrInvalidCartState):
		return "invalid_cart_state"
	case errors.Is(err, usecase.ErrMissingCheckoutData):
		return "missing_checkout_data"
	case errors.Is(err, usecase.ErrPaymentUpstream):
		return "payment_upstream_failure"
	default:
		return "internal_error"
	}
}

// statusOf maps the common kinds; handlers override where the same kind
// needs a different status (payment failures differ between initiation and
// completion).
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidCartState),
		errors.Is(err, usecase.ErrMissingCheckoutData):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrPaymentUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": kindOf(err), "message": err.Error()})
}
