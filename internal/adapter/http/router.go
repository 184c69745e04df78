package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zurlegende/storefront-api/internal/adapter/http/middleware"
	"github.com/zurlegende/storefront-api/internal/logging"
)

func NewRouter(ph *ProductHandler, ch *CartHandler, ckh *CheckoutHandler) *gin.Engine {
	r := gin.New()
	// CORS is wide open: the storefront frontend runs on its own origin.
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), cors.Default())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "storefront-api"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	store := r.Group("/store")
	{
		store.GET("/products", ph.ListProducts)
		store.GET("/products/:id", ph.GetProduct)

		store.POST("/carts", ch.CreateCart)
		store.GET("/carts/:id", ch.GetCart)
		store.POST("/carts/:id/line-items", ch.AddLineItem)
		store.POST("/carts/:id/line-items/:line_id", ch.UpdateLineItem)
		store.DELETE("/carts/:id/line-items/:line_id", ch.RemoveLineItem)

		store.POST("/carts/:id/payment-sessions", ckh.CreatePaymentSession)
		store.POST("/carts/:id/complete", ckh.CompleteCart)
		store.GET("/orders/:id", ckh.GetOrder)
	}

	return r
}
