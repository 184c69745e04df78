package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zurlegende/storefront-api/internal/adapter/catalog"
	"github.com/zurlegende/storefront-api/internal/adapter/events"
	"github.com/zurlegende/storefront-api/internal/adapter/payment"
	"github.com/zurlegende/storefront-api/internal/adapter/store"
	"github.com/zurlegende/storefront-api/internal/entity"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the full stack on in-memory adapters.
func newTestRouter() (*gin.Engine, *payment.FakeProvider) {
	cat := catalog.NewStaticCatalog(nil)
	cartStore := store.NewMemoryCartStore()
	orderStore := store.NewMemoryOrderStore()
	provider := payment.NewFakeProvider()

	carts := usecase.NewCartService(cartStore, cat)
	checkout := usecase.NewCheckoutService(carts, orderStore, provider, events.NoopPublisher{}, "usd")

	r := NewRouter(
		NewProductHandler(cat),
		NewCartHandler(carts),
		NewCheckoutHandler(checkout),
	)
	return r, provider
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) *entity.Cart {
	t.Helper()
	var env struct {
		Cart *entity.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Cart)
	return env.Cart
}

func errKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func createCart(t *testing.T, r *gin.Engine) *entity.Cart {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/store/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeCart(t, w)
}

func TestProducts(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/store/products?limit=2&offset=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []entity.Product `json:"products"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Count)
	assert.Len(t, resp.Products, 2)

	w = doJSON(t, r, http.MethodGet, "/store/products/classic-pullover", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/store/products/prod_404", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errKind(t, w))
}

func TestCartLifecycle_MergeAndTotals(t *testing.T) {
	r, _ := newTestRouter()
	cart := createCart(t, r)
	assert.Empty(t, cart.Items)

	w := doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeCart(t, w)

	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(3), got.Items[0].Quantity)
	assert.Equal(t, int64(14997), got.Total)
	assert.Equal(t, got.Subtotal, got.Total)
}

func TestCartLifecycle_RemoveToEmpty(t *testing.T) {
	r, _ := newTestRouter()
	cart := createCart(t, r)

	w := doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_5", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	withItem := decodeCart(t, w)
	require.Len(t, withItem.Items, 1)

	// unknown line id: idempotent, cart unchanged
	w = doJSON(t, r, http.MethodDelete, "/store/carts/"+cart.ID+"/line-items/nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeCart(t, w).Items, 1)

	w = doJSON(t, r, http.MethodDelete, "/store/carts/"+cart.ID+"/line-items/"+withItem.Items[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeCart(t, w)
	assert.Empty(t, got.Items)
	assert.Equal(t, int64(0), got.Total)
}

func TestCart_ErrorKinds(t *testing.T) {
	r, _ := newTestRouter()
	cart := createCart(t, r)

	w := doJSON(t, r, http.MethodGet, "/store/carts/00000000-0000-0000-0000-000000000000", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errKind(t, w))

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_quantity", errKind(t, w))

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_404", "quantity": 1})
	require.Equal(t, http.StatusNotFound, w.Code)

	// update quantity on a real line item
	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	lineID := decodeCart(t, w).Items[0].ID

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items/"+lineID,
		map[string]any{"quantity": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_quantity", errKind(t, w))

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items/"+lineID,
		map[string]any{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5*4999), decodeCart(t, w).Total)
}

func checkoutBody() map[string]any {
	return map[string]any{
		"email": "ada@example.com",
		"shipping_address": map[string]any{
			"first_name": "Ada", "last_name": "Lovelace",
			"address_1": "1 Analytical Way", "city": "London",
			"postal_code": "E1 6AN", "country_code": "gb",
		},
	}
}

func TestCheckout_PaymentSessionFlow(t *testing.T) {
	r, _ := newTestRouter()
	cart := createCart(t, r)

	// empty cart cannot start checkout
	w := doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions", checkoutBody())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_cart_state", errKind(t, w))

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	// missing email fails binding
	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions",
		map[string]any{"shipping_address": map[string]any{"city": "London"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code)
	var first struct {
		ClientSecret string `json:"clientSecret"`
		CartID       string `json:"cartId"`
		Total        int64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.NotEmpty(t, first.ClientSecret)
	assert.Equal(t, cart.ID, first.CartID)
	assert.Equal(t, int64(4999), first.Total)

	// re-initiation replaces the session
	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code)
	var second struct {
		ClientSecret string `json:"clientSecret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.NotEqual(t, first.ClientSecret, second.ClientSecret)

	w = doJSON(t, r, http.MethodGet, "/store/carts/"+cart.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeCart(t, w)
	require.NotNil(t, got.PaymentSession)
	assert.Equal(t, second.ClientSecret, got.PaymentSession.Data[entity.SessionDataClientSecret])
}

func TestCheckout_CompleteFlow(t *testing.T) {
	r, _ := newTestRouter()
	cart := createCart(t, r)

	w := doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	// no email/address yet
	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/complete", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_checkout_data", errKind(t, w))

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Order *entity.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Order)
	assert.NotEqual(t, cart.ID, env.Order.ID)
	assert.Equal(t, "ada@example.com", env.Order.Email)
	assert.Equal(t, int64(4999), env.Order.Total)
	require.Len(t, env.Order.Items, 1)

	// the cart is gone
	w = doJSON(t, r, http.MethodGet, "/store/carts/"+cart.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// the order is readable
	w = doJSON(t, r, http.MethodGet, "/store/orders/"+env.Order.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCheckout_CompleteWithUnconfirmedPayment(t *testing.T) {
	r, provider := newTestRouter()
	cart := createCart(t, r)

	w := doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/line-items",
		map[string]any{"variant_id": "prod_1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/payment-sessions", checkoutBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/store/carts/"+cart.ID, nil)
	intentID := decodeCart(t, w).PaymentSession.Data[entity.SessionDataIntentID]
	provider.SetStatus(intentID, usecase.IntentStatusFailed)

	w = doJSON(t, r, http.MethodPost, "/store/carts/"+cart.ID+"/complete", nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "payment_upstream_failure", errKind(t, w))

	// refused completion keeps the cart
	w = doJSON(t, r, http.MethodGet, "/store/carts/"+cart.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
