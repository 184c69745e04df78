package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/zurlegende/storefront-api/configs"
	"github.com/zurlegende/storefront-api/internal/adapter/catalog"
	"github.com/zurlegende/storefront-api/internal/adapter/events"
	httpadapter "github.com/zurlegende/storefront-api/internal/adapter/http"
	"github.com/zurlegende/storefront-api/internal/adapter/payment"
	"github.com/zurlegende/storefront-api/internal/adapter/store"
	"github.com/zurlegende/storefront-api/internal/logging"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// stores
	var (
		cartStore  usecase.CartStore
		orderStore usecase.OrderStore
	)
	switch cfg.Store.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		cleanups = append(cleanups, func() { _ = rdb.Close() })
		cartStore = store.NewRedisCartStore(rdb, cfg.Store.CartTTL)
		orderStore = store.NewRedisOrderStore(rdb)
	default:
		cartStore = store.NewMemoryCartStore()
		orderStore = store.NewMemoryOrderStore()
	}

	// payment provider
	var provider usecase.PaymentProvider
	switch cfg.Payments.Provider {
	case "processor":
		provider = payment.NewProcessorClient(
			cfg.Payments.BaseURL, cfg.Payments.APIKey, cfg.Payments.ProviderID, cfg.Payments.Timeout)
	default:
		provider = payment.NewFakeProvider()
	}

	// event publisher
	var publisher usecase.EventPublisher = events.NoopPublisher{}
	if cfg.Events.RabbitURL != "" {
		conn, err := amqp091.Dial(cfg.Events.RabbitURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("rabbit dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			cleanup()
			return nil, nil, fmt.Errorf("rabbit channel: %w", err)
		}
		pub, err := events.NewRabbitPublisher(ch)
		if err != nil {
			_ = conn.Close()
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = conn.Close() })
		publisher = pub
	}

	// services + handlers + router
	cat := catalog.NewStaticCatalog(nil)
	cartSvc := usecase.NewCartService(cartStore, cat)
	checkoutSvc := usecase.NewCheckoutService(cartSvc, orderStore, provider, publisher, cfg.Payments.Currency)

	ph := httpadapter.NewProductHandler(cat)
	ch := httpadapter.NewCartHandler(cartSvc)
	ckh := httpadapter.NewCheckoutHandler(checkoutSvc)
	router := httpadapter.NewRouter(ph, ch, ckh)

	log.Info("storefront-api wired",
		"store", cfg.Store.Backend, "payments", cfg.Payments.Provider,
		"events", cfg.Events.RabbitURL != "")

	return &App{Router: router}, cleanup, nil
}
