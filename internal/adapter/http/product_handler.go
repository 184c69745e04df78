package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

type ProductHandler struct {
	catalog usecase.Catalog
}

func NewProductHandler(catalog usecase.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	products, count, err := h.catalog.List(ctx, limit, offset)
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": count, "offset": offset})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	product, err := h.catalog.FindByIdentifier(ctx, c.Param("id"))
	if err != nil {
		writeError(c, statusOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
