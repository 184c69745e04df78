package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.CheckoutService
}

func NewCheckoutHandler(checkout *usecase.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type paymentSessionReq struct {
	Email           string          `json:"email" binding:"required,email"`
	ShippingAddress *entity.Address `json:"shipping_address" binding:"required"`
	BillingAddress  *entity.Address `json:"billing_address"`
}

type paymentSessionResp struct {
	ClientSecret string `json:"clientSecret"`
	CartID       string `json:"cartId"`
	Total        int64  `json:"total"`
}

// CreatePaymentSession covers the processor round-trip, so its budget is
// wider than the local cart operations'.
func (h *CheckoutHandler) CreatePaymentSession(c *gin.Context) {
	var req paymentSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.checkout.InitiateSession(ctx, c.Param("id"), req.Email, req.ShippingAddress, req.BillingAddress)
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, paymentSessionResp{
		ClientSecret: out.ClientSecret,
		CartID:       out.CartID,
		Total:        out.Total,
	})
}

func (h *CheckoutHandler) CompleteCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := h.checkout.CompleteCart(ctx, c.Param("id"))
	if err != nil {
		status := statusOf(err)
		// Unconfirmed payment at completion is the client's problem to
		// resolve with the processor, not a gateway fault.
		if errors.Is(err, usecase.ErrPaymentUpstream) {
			status = http.StatusPaymentRequired
		}
		writeError(c, status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.checkout.GetOrder(ctx, c.Param("id"))
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
