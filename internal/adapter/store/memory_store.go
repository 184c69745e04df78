package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

// MemoryCartStore keeps carts in a process-wide map. Get/Put exchange deep
// copies so two callers holding the "same" cart never share memory; the
// RWMutex only guards the map itself, not cross-call ordering.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*entity.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]*entity.Cart)}
}

func (s *MemoryCartStore) Put(_ context.Context, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = cart.Clone()
	return nil
}

func (s *MemoryCartStore) Get(_ context.Context, id string) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart %q: %w", id, usecase.ErrNotFound)
	}
	return cart.Clone(), nil
}

func (s *MemoryCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

var _ usecase.CartStore = (*MemoryCartStore)(nil)

type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]*entity.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]*entity.Order)}
}

func (s *MemoryOrderStore) Put(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *MemoryOrderStore) Get(_ context.Context, id string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, usecase.ErrNotFound)
	}
	return order.Clone(), nil
}

var _ usecase.OrderStore = (*MemoryOrderStore)(nil)
