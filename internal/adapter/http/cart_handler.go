package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

type CartHandler struct {
	carts *usecase.CartService
}

func NewCartHandler(carts *usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.Create(ctx)
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart": cart})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

type addLineItemReq struct {
	VariantID string `json:"variant_id" binding:"required"`
	// no binding on quantity: zero and negative values must reach the
	// service so they fail with the invalid_quantity kind, not bad_request
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) AddLineItem(c *gin.Context) {
	var req addLineItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.AddLineItem(ctx, c.Param("id"), req.VariantID, req.Quantity)
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

type updateLineItemReq struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) UpdateLineItem(c *gin.Context) {
	var req updateLineItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.UpdateLineItemQuantity(ctx, c.Param("id"), c.Param("line_id"), req.Quantity)
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h *CartHandler) RemoveLineItem(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.RemoveLineItem(ctx, c.Param("id"), c.Param("line_id"))
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}
