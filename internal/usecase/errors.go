package usecase

import "errors"

// Stable error kinds surfaced to callers. Handlers map these to HTTP
// statuses with errors.Is; wrap with %w to attach detail.
var (
	ErrNotFound            = errors.New("not_found")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidCartState    = errors.New("invalid_cart_state")
	ErrMissingCheckoutData = errors.New("missing_checkout_data")
	ErrPaymentUpstream     = errors.New("payment_upstream_failure")
)
