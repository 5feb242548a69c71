package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/circuit"
)

// RESTProvider talks to the hosted payment gateway over its JSON API. A
// circuit breaker fails calls fast while the gateway is down so wizard
// sessions surface a retryable error instead of hanging on timeouts.
type RESTProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuit.Breaker
}

func NewRESTProvider(baseURL, apiKey string, timeout time.Duration) *RESTProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RESTProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: circuit.New("payment-provider", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

func (p *RESTProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (Intent, error) {
	var intent Intent
	err := p.post(ctx, "/v1/payment_intents", map[string]any{
		"amount":   amount,
		"currency": currency,
	}, &intent)
	if err != nil {
		return Intent{}, err
	}
	return intent, nil
}

func (p *RESTProvider) ConfirmPayment(ctx context.Context, intentID, instrument string) (Confirmation, error) {
	var confirmation Confirmation
	err := p.post(ctx, "/v1/payment_intents/"+intentID+"/confirm", map[string]any{
		"instrument": instrument,
	}, &confirmation)
	if err != nil {
		return Confirmation{}, err
	}
	return confirmation, nil
}

func (p *RESTProvider) post(ctx context.Context, path string, body any, out any) error {
	if !p.breaker.Allow() {
		return dErrors.New(dErrors.CodeUnavailable, "payment provider temporarily unavailable")
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payment request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.breaker.RecordFailure()
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "payment provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The gateway answered, so the circuit is healthy.
		p.breaker.RecordSuccess()
		return dErrors.New(dErrors.CodeNotFound, "unknown payment intent")
	case resp.StatusCode >= 500:
		p.breaker.RecordFailure()
		return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("payment provider returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		p.breaker.RecordSuccess()
		return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("payment provider returned %d", resp.StatusCode))
	}

	p.breaker.RecordSuccess()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed payment provider response")
	}
	return nil
}
