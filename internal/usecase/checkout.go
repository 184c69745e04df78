package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/logging"
)

type SessionResult struct {
	ClientSecret string
	CartID       string
	Total        int64
}

// CheckoutService drives the payment-session and completion steps. It
// shares the CartService's per-cart locks so checkout and line-item
// mutations on the same cart cannot interleave.
type CheckoutService struct {
	carts    *CartService
	orders   OrderStore
	payments PaymentProvider
	events   EventPublisher
	currency string
	log      *slog.Logger
}

func NewCheckoutService(carts *CartService, orders OrderStore, payments PaymentProvider, events EventPublisher, currency string) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		payments: payments,
		events:   events,
		currency: currency,
		log:      logging.New("checkout"),
	}
}

// InitiateSession stamps checkout data onto the cart and requests a payment
// intent for the cart's current total. A cart holds at most one session:
// re-initiation replaces the previous one. The cart is only written after
// the processor call succeeds, so a failed or timed-out request leaves the
// prior state (and any earlier session) untouched.
func (s *CheckoutService) InitiateSession(ctx context.Context, cartID, email string, shipping, billing *entity.Address) (*SessionResult, error) {
	unlock := s.carts.locks.lock(cartID)
	defer unlock()

	cart, err := s.carts.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidCartState)
	}

	intent, err := s.payments.CreateIntent(ctx, cart.Total, s.currency)
	if err != nil {
		paymentSessions.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: create intent: %v", ErrPaymentUpstream, err)
	}

	cart.Email = email
	cart.ShippingAddress = shipping
	cart.BillingAddress = billing
	cart.PaymentSession = &entity.PaymentSession{
		ID:         uuid.NewString(),
		ProviderID: s.payments.ID(),
		Data: map[string]string{
			entity.SessionDataClientSecret: intent.ClientSecret,
			entity.SessionDataIntentID:     intent.ID,
		},
	}

	if err := s.carts.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart: %w", err)
	}

	paymentSessions.WithLabelValues("created").Inc()
	s.log.InfoContext(ctx, "payment session created",
		"cart_id", cartID, "provider", s.payments.ID(), "amount", cart.Total)

	return &SessionResult{ClientSecret: intent.ClientSecret, CartID: cartID, Total: cart.Total}, nil
}

// CompleteCart converts a paid cart into an immutable order and retires the
// cart, as one step under the cart's lock. Completion is gated on the
// processor reporting the cart's intent as succeeded, not on what the
// client claims. Afterwards the cart id resolves to nothing.
func (s *CheckoutService) CompleteCart(ctx context.Context, cartID string) (*entity.Order, error) {
	unlock := s.carts.locks.lock(cartID)
	defer unlock()

	cart, err := s.carts.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.Email == "" || cart.ShippingAddress == nil {
		return nil, fmt.Errorf("%w: email and shipping address required", ErrMissingCheckoutData)
	}
	if cart.PaymentSession == nil {
		return nil, fmt.Errorf("%w: no payment session", ErrInvalidCartState)
	}

	intentID := cart.PaymentSession.Data[entity.SessionDataIntentID]
	status, err := s.payments.IntentStatus(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: intent status: %v", ErrPaymentUpstream, err)
	}
	if status != IntentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent %s is %s", ErrPaymentUpstream, intentID, status)
	}

	order := orderFromCart(cart)
	if err := s.orders.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}
	if err := s.carts.store.Delete(ctx, cartID); err != nil {
		return nil, fmt.Errorf("retire cart: %w", err)
	}

	ordersCompleted.Inc()
	s.log.InfoContext(ctx, "order placed",
		"order_id", order.ID, "display_id", order.DisplayID, "cart_id", cartID, "total", order.Total)

	// Best effort: the order is already durable in its store.
	if err := s.events.PublishOrderPlaced(ctx, OrderPlacedMsg{
		OrderID:   order.ID,
		DisplayID: order.DisplayID,
		Email:     order.Email,
		Total:     order.Total,
		Currency:  s.currency,
	}); err != nil {
		s.log.WarnContext(ctx, "publish order.placed failed", "order_id", order.ID, "err", err)
	}

	return order, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return s.orders.Get(ctx, orderID)
}

// orderFromCart snapshots the cart into a fresh order. The order owns its
// own copy of the items; nothing points back at the cart.
func orderFromCart(cart *entity.Cart) *entity.Order {
	snap := cart.Clone()
	return &entity.Order{
		ID:              newOrderID(),
		DisplayID:       rand.IntN(100000),
		Email:           snap.Email,
		Items:           snap.Items,
		Subtotal:        snap.Subtotal,
		Total:           snap.Total,
		ShippingAddress: snap.ShippingAddress,
		BillingAddress:  snap.BillingAddress,
		Status:          entity.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
}

// Order ids carry an ord_ prefix so they can never collide with (or be
// mistaken for) cart ids.
func newOrderID() string {
	return "ord_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
