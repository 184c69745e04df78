package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zurlegende/storefront-api/internal/entity"
)

// CartCache mirrors the server-side cart for optimistic display. The server
// is authoritative: every mutation response fully replaces the local
// snapshot, never merges into it. Only the cart id and items survive a
// restart; totals are derived state and come back on the next sync.
type CartCache struct {
	mu   sync.Mutex
	api  *Client
	path string

	id       string
	items    []entity.LineItem
	subtotal int64
	total    int64
}

type persistedCart struct {
	ID    string            `json:"id"`
	Items []entity.LineItem `json:"items"`
}

// NewCartCache loads any snapshot persisted at path. A missing or corrupt
// file just means starting uninitialized.
func NewCartCache(api *Client, path string) *CartCache {
	c := &CartCache{api: api, path: path, items: []entity.LineItem{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var p persistedCart
	if err := json.Unmarshal(raw, &p); err != nil {
		return c
	}
	c.id = p.ID
	if p.Items != nil {
		c.items = p.Items
	}
	return c
}

// InitCart allocates a fresh server cart and adopts it.
func (c *CartCache) InitCart(ctx context.Context) error {
	cart, err := c.api.CreateCart(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(cart)
}

// AddItem pushes the mutation to the server and overwrites the local
// snapshot with the canonical response. Creates the cart lazily on first use.
func (c *CartCache) AddItem(ctx context.Context, variantID string, quantity int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.id == "" {
		cart, err := c.api.CreateCart(ctx)
		if err != nil {
			return err
		}
		if err := c.apply(cart); err != nil {
			return err
		}
	}

	cart, err := c.api.AddLineItem(ctx, c.id, variantID, quantity)
	if err != nil {
		return err
	}
	return c.apply(cart)
}

func (c *CartCache) RemoveItem(ctx context.Context, lineItemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == "" {
		return nil
	}
	cart, err := c.api.RemoveLineItem(ctx, c.id, lineItemID)
	if err != nil {
		return err
	}
	return c.apply(cart)
}

func (c *CartCache) UpdateQuantity(ctx context.Context, lineItemID string, quantity int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == "" {
		return nil
	}
	cart, err := c.api.UpdateLineItem(ctx, c.id, lineItemID, quantity)
	if err != nil {
		return err
	}
	return c.apply(cart)
}

// Refresh re-fetches the canonical cart, repopulating derived totals after
// a restart. A 404 means the cart was completed or expired elsewhere; the
// cache resets rather than keep showing a dead cart.
func (c *CartCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.id == "" {
		return nil
	}
	cart, err := c.api.GetCart(ctx, c.id)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return c.clearLocked()
		}
		return err
	}
	return c.apply(cart)
}

// Clear resets to the uninitialized state, e.g. after order completion.
func (c *CartCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearLocked()
}

func (c *CartCache) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *CartCache) Items() []entity.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *CartCache) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal
}

func (c *CartCache) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *CartCache) ItemCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// apply replaces the whole snapshot with the server's cart and persists the
// durable part (id + items). Callers hold c.mu.
func (c *CartCache) apply(cart *entity.Cart) error {
	c.id = cart.ID
	c.items = make([]entity.LineItem, len(cart.Items))
	copy(c.items, cart.Items)
	c.subtotal = cart.Subtotal
	c.total = cart.Total
	return c.persist()
}

func (c *CartCache) clearLocked() error {
	c.id = ""
	c.items = []entity.LineItem{}
	c.subtotal = 0
	c.total = 0
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cart snapshot: %w", err)
	}
	return nil
}

// persist writes atomically (temp file + rename) so a crash mid-write never
// leaves a torn snapshot.
func (c *CartCache) persist() error {
	raw, err := json.Marshal(persistedCart{ID: c.id, Items: c.items})
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return fmt.Errorf("snapshot temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cart snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cart snapshot: %w", err)
	}
	return nil
}
