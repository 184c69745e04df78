package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

// FakeProvider is the in-process processor used in dev mode. It issues
// Stripe-shaped client secrets and reports every intent it issued as
// succeeded, since there is no real confirmation leg to wait on.
type FakeProvider struct {
	mu      sync.Mutex
	intents map[string]string // intent id -> status
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{intents: make(map[string]string)}
}

func (p *FakeProvider) ID() string { return "stripe" }

func (p *FakeProvider) CreateIntent(_ context.Context, amount int64, currency string) (*usecase.PaymentIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}
	if currency == "" {
		return nil, fmt.Errorf("currency required")
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	intent := &usecase.PaymentIntent{
		ID:           "pi_" + suffix,
		ClientSecret: "pi_test_" + suffix,
		Status:       usecase.IntentStatusSucceeded,
	}

	p.mu.Lock()
	p.intents[intent.ID] = intent.Status
	p.mu.Unlock()
	return intent, nil
}

func (p *FakeProvider) IntentStatus(_ context.Context, intentID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, ok := p.intents[intentID]
	if !ok {
		return "", fmt.Errorf("unknown intent %q", intentID)
	}
	return status, nil
}

// SetStatus overrides an intent's status. Test hook.
func (p *FakeProvider) SetStatus(intentID, status string) {
	p.mu.Lock()
	p.intents[intentID] = status
	p.mu.Unlock()
}

var _ usecase.PaymentProvider = (*FakeProvider)(nil)
