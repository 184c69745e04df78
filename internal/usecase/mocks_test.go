package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/zurlegende/storefront-api/internal/entity"
)

// Hand-rolled port stubs; each test flips the failure knobs it needs.

type stubCartStore struct {
	mu     sync.Mutex
	carts  map[string]*entity.Cart
	putErr error
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[string]*entity.Cart)}
}

func (s *stubCartStore) Put(_ context.Context, cart *entity.Cart) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = cart.Clone()
	return nil
}

func (s *stubCartStore) Get(_ context.Context, id string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart %q: %w", id, ErrNotFound)
	}
	return cart.Clone(), nil
}

func (s *stubCartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

type stubOrderStore struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
	putErr error
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{orders: make(map[string]*entity.Order)}
}

func (s *stubOrderStore) Put(_ context.Context, order *entity.Order) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *stubOrderStore) Get(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return order.Clone(), nil
}

type stubCatalog struct {
	products map[string]entity.Product
}

func newStubCatalog(products ...entity.Product) *stubCatalog {
	m := make(map[string]entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &stubCatalog{products: m}
}

func (c *stubCatalog) FindByIdentifier(_ context.Context, identifier string) (*entity.Product, error) {
	for _, p := range c.products {
		if p.ID == identifier || p.Handle == identifier {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product %q: %w", identifier, ErrNotFound)
}

func (c *stubCatalog) List(_ context.Context, _, _ int) ([]entity.Product, int, error) {
	out := make([]entity.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

type stubProvider struct {
	mu        sync.Mutex
	seq       int
	createErr error
	statuses  map[string]string
	amounts   []int64
}

func newStubProvider() *stubProvider {
	return &stubProvider{statuses: make(map[string]string)}
}

func (p *stubProvider) ID() string { return "stripe" }

func (p *stubProvider) CreateIntent(_ context.Context, amount int64, _ string) (*PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.seq++
	id := fmt.Sprintf("pi_%d", p.seq)
	p.statuses[id] = IntentStatusSucceeded
	p.amounts = append(p.amounts, amount)
	return &PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: IntentStatusSucceeded}, nil
}

func (p *stubProvider) IntentStatus(_ context.Context, intentID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.statuses[intentID]
	if !ok {
		return "", fmt.Errorf("unknown intent %q", intentID)
	}
	return status, nil
}

func (p *stubProvider) setStatus(intentID, status string) {
	p.mu.Lock()
	p.statuses[intentID] = status
	p.mu.Unlock()
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs []OrderPlacedMsg
	err  error
}

func (p *capturePublisher) PublishOrderPlaced(_ context.Context, msg OrderPlacedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

var testProducts = []entity.Product{
	{ID: "prod_1", Title: "Classic Pullover", Handle: "classic-pullover", UnitPrice: 4999},
	{ID: "prod_5", Title: "Neon Tee", Handle: "neon-tee", UnitPrice: 2999},
}

func newTestCartService() (*CartService, *stubCartStore) {
	store := newStubCartStore()
	return NewCartService(store, newStubCatalog(testProducts...)), store
}

func newTestCheckoutService() (*CheckoutService, *CartService, *stubCartStore, *stubOrderStore, *stubProvider, *capturePublisher) {
	carts, cartStore := newTestCartService()
	orders := newStubOrderStore()
	provider := newStubProvider()
	pub := &capturePublisher{}
	return NewCheckoutService(carts, orders, provider, pub, "usd"), carts, cartStore, orders, provider, pub
}
