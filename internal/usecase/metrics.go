package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_carts_created_total",
		Help: "Total number of carts created",
	})

	paymentSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_payment_sessions_total",
		Help: "Total number of payment session initiations",
	}, []string{"outcome"})

	ordersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_completed_total",
		Help: "Total number of carts completed into orders",
	})
)
