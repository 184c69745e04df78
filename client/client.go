// Package client is the Go consumer of the storefront API: a typed REST
// client plus a locally persisted cart cache the presentation layer uses
// for optimistic display.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zurlegende/storefront-api/internal/entity"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Kind    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s: %s", e.Status, e.Kind, e.Message)
}

func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

type cartEnvelope struct {
	Cart *entity.Cart `json:"cart"`
}

type orderEnvelope struct {
	Order *entity.Order `json:"order"`
}

type productsEnvelope struct {
	Products []entity.Product `json:"products"`
	Count    int              `json:"count"`
	Offset   int              `json:"offset"`
}

type PaymentSessionResult struct {
	ClientSecret string `json:"clientSecret"`
	CartID       string `json:"cartId"`
	Total        int64  `json:"total"`
}

type CheckoutData struct {
	Email           string          `json:"email"`
	ShippingAddress *entity.Address `json:"shipping_address"`
	BillingAddress  *entity.Address `json:"billing_address,omitempty"`
}

func (c *Client) CreateCart(ctx context.Context) (*entity.Cart, error) {
	var env cartEnvelope
	if err := c.post(ctx, "/store/carts", nil, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *Client) GetCart(ctx context.Context, cartID string) (*entity.Cart, error) {
	var env cartEnvelope
	if err := c.get(ctx, "/store/carts/"+cartID, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *Client) AddLineItem(ctx context.Context, cartID, variantID string, quantity int64) (*entity.Cart, error) {
	body := map[string]any{"variant_id": variantID, "quantity": quantity}
	var env cartEnvelope
	if err := c.post(ctx, "/store/carts/"+cartID+"/line-items", body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *Client) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int64) (*entity.Cart, error) {
	body := map[string]any{"quantity": quantity}
	var env cartEnvelope
	if err := c.post(ctx, "/store/carts/"+cartID+"/line-items/"+lineItemID, body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *Client) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (*entity.Cart, error) {
	var env cartEnvelope
	if err := c.do(ctx, http.MethodDelete, "/store/carts/"+cartID+"/line-items/"+lineItemID, nil, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *Client) CreatePaymentSession(ctx context.Context, cartID string, data CheckoutData) (*PaymentSessionResult, error) {
	var out PaymentSessionResult
	if err := c.post(ctx, "/store/carts/"+cartID+"/payment-sessions", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteCart(ctx context.Context, cartID string) (*entity.Order, error) {
	var env orderEnvelope
	if err := c.post(ctx, "/store/carts/"+cartID+"/complete", nil, &env); err != nil {
		return nil, err
	}
	return env.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var env orderEnvelope
	if err := c.get(ctx, "/store/orders/"+orderID, &env); err != nil {
		return nil, err
	}
	return env.Order, nil
}

func (c *Client) ListProducts(ctx context.Context, limit, offset int) ([]entity.Product, int, error) {
	var env productsEnvelope
	path := fmt.Sprintf("/store/products?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &env); err != nil {
		return nil, 0, err
	}
	return env.Products, env.Count, nil
}

// get retries once on a transport failure. Reads are safe to repeat;
// mutations are not (the server keeps no cross-request idempotency keys),
// so post/do never retry.
func (c *Client) get(ctx context.Context, path string, out any) error {
	err := c.do(ctx, http.MethodGet, path, nil, out)
	var apiErr *APIError
	if err != nil && !errors.As(err, &apiErr) && ctx.Err() == nil {
		err = c.do(ctx, http.MethodGet, path, nil, out)
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Kind == "" {
			apiErr.Kind = "unknown"
			apiErr.Message = string(bytes.TrimSpace(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
