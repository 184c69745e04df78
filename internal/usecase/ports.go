package usecase

import (
	"context"

	"github.com/zurlegende/storefront-api/internal/entity"
)

// CartStore is dumb keyed storage for carts. Implementations return and
// accept deep copies; mutation ordering is the service layer's concern.
type CartStore interface {
	Put(ctx context.Context, cart *entity.Cart) error
	Get(ctx context.Context, id string) (*entity.Cart, error) // ErrNotFound when absent
	Delete(ctx context.Context, id string) error              // idempotent
}

type OrderStore interface {
	Put(ctx context.Context, order *entity.Order) error
	Get(ctx context.Context, id string) (*entity.Order, error) // ErrNotFound when absent
}

// Catalog resolves products. Pure reads, no side effects.
type Catalog interface {
	// FindByIdentifier matches either the product id or its handle.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]entity.Product, int, error)
}

// PaymentIntent is the processor's handle for one charge attempt. The
// client secret goes to the browser; the intent id stays server-side for
// status lookups.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusPending   = "pending"
	IntentStatusFailed    = "failed"
)

// PaymentProvider is the trust-boundary crossing to the payment processor.
// Both calls are network round-trips: cancellable, timed out by the caller.
type PaymentProvider interface {
	ID() string
	CreateIntent(ctx context.Context, amount int64, currency string) (*PaymentIntent, error)
	IntentStatus(ctx context.Context, intentID string) (string, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMsg) error
}
