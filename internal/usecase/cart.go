package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/logging"
)

// CartService owns the cart lifecycle up to checkout. All mutations on the
// same cart id are serialized through a keyed mutex; distinct carts do not
// contend. The store only ever sees fully recomputed snapshots.
type CartService struct {
	store   CartStore
	catalog Catalog
	locks   *keyedMutex
	log     *slog.Logger
}

func NewCartService(store CartStore, catalog Catalog) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		locks:   newKeyedMutex(),
		log:     logging.New("cart"),
	}
}

func (s *CartService) Create(ctx context.Context) (*entity.Cart, error) {
	cart := entity.NewCart(uuid.NewString())
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart: %w", err)
	}
	cartsCreated.Inc()
	s.log.InfoContext(ctx, "cart created", "cart_id", cart.ID)
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, cartID string) (*entity.Cart, error) {
	return s.store.Get(ctx, cartID)
}

// AddLineItem prices the variant through the catalog and merges it into the
// cart. Adding a variant that is already present bumps the existing line
// item's quantity instead of creating a duplicate.
func (s *CartService) AddLineItem(ctx context.Context, cartID, variantID string, quantity int64) (*entity.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d", ErrInvalidQuantity, quantity)
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.FindByIdentifier(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("variant %q: %w", variantID, err)
	}

	cart.AddItem(entity.LineItem{
		ID:        uuid.NewString(),
		VariantID: variantID,
		ProductID: product.ID,
		Title:     product.Title,
		UnitPrice: product.UnitPrice,
		Quantity:  quantity,
	})

	if err := s.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart: %w", err)
	}
	return cart, nil
}

// RemoveLineItem deletes a line item. An unknown line item id is a no-op:
// the cart comes back unchanged, not an error.
func (s *CartService) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*entity.Cart, error) {
	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(lineItemID)
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) UpdateLineItemQuantity(ctx context.Context, cartID, lineItemID string, quantity int64) (*entity.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d", ErrInvalidQuantity, quantity)
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.SetItemQuantity(lineItemID, quantity) {
		return nil, fmt.Errorf("line item %q: %w", lineItemID, ErrNotFound)
	}
	if err := s.store.Put(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart: %w", err)
	}
	return cart, nil
}
