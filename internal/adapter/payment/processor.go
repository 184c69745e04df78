package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zurlegende/storefront-api/internal/usecase"
)

// ProcessorClient talks to a real payment processor over its REST API. The
// two calls it makes are the only trust-boundary crossings in the core, so
// every request carries a deadline and failures surface to the caller
// untouched; retry policy stays with the caller.
type ProcessorClient struct {
	baseURL    string
	apiKey     string
	providerID string
	http       *http.Client
}

func NewProcessorClient(baseURL, apiKey, providerID string, timeout time.Duration) *ProcessorClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProcessorClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		providerID: providerID,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *ProcessorClient) ID() string { return c.providerID }

type createIntentReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type intentResp struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

func (c *ProcessorClient) CreateIntent(ctx context.Context, amount int64, currency string) (*usecase.PaymentIntent, error) {
	body, err := json.Marshal(createIntentReq{Amount: amount, Currency: currency})
	if err != nil {
		return nil, fmt.Errorf("marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var out intentResp
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.ClientSecret == "" {
		return nil, fmt.Errorf("processor returned no client secret for intent %q", out.ID)
	}
	return &usecase.PaymentIntent{ID: out.ID, ClientSecret: out.ClientSecret, Status: out.Status}, nil
}

func (c *ProcessorClient) IntentStatus(ctx context.Context, intentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var out intentResp
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *ProcessorClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("processor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read processor response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("processor returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode processor response: %w", err)
	}
	return nil
}

var _ usecase.PaymentProvider = (*ProcessorClient)(nil)
