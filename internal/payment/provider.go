package payment

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	dErrors "neuroportal/pkg/domain-errors"
)

// Intent is the provider-side handle for one payment attempt.
type Intent struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

// Confirmation is the provider's settlement result.
type Confirmation struct {
	IntentID string `json:"intent_id"`
	Settled  bool   `json:"settled"`
	Receipt  string `json:"receipt,omitempty"`
}

// Provider is the payment collaborator. Both methods are opaque async effects
// from the wizard's point of view.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (Intent, error)
	ConfirmPayment(ctx context.Context, intentID, instrument string) (Confirmation, error)
}

// MockProvider settles every confirmation in memory. It backs development and
// tests; instruments containing "declined" are rejected so failure paths can
// be exercised end to end.
type MockProvider struct {
	mu      sync.Mutex
	intents map[string]int64
}

func NewMockProvider() *MockProvider {
	return &MockProvider{intents: make(map[string]int64)}
}

func (p *MockProvider) CreatePaymentIntent(_ context.Context, amount int64, currency string) (Intent, error) {
	if amount <= 0 {
		return Intent{}, dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	if currency == "" {
		return Intent{}, dErrors.New(dErrors.CodeInvalidInput, "currency is required")
	}
	intentID := "pi_" + uuid.NewString()
	p.mu.Lock()
	p.intents[intentID] = amount
	p.mu.Unlock()
	return Intent{IntentID: intentID, ClientSecret: intentID + "_secret"}, nil
}

func (p *MockProvider) ConfirmPayment(_ context.Context, intentID, instrument string) (Confirmation, error) {
	p.mu.Lock()
	_, exists := p.intents[intentID]
	p.mu.Unlock()
	if !exists {
		return Confirmation{}, dErrors.New(dErrors.CodeNotFound, "unknown payment intent")
	}
	if strings.Contains(instrument, "declined") {
		return Confirmation{IntentID: intentID, Settled: false}, nil
	}
	return Confirmation{IntentID: intentID, Settled: true, Receipt: "rcpt_" + uuid.NewString()}, nil
}
