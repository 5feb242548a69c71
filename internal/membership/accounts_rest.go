package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

// RESTAccounts talks to the hosted identity backend over its JSON API. The
// backend owns password storage and verification email delivery; this client
// only relays the portal's requests.
type RESTAccounts struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTAccounts(baseURL, apiKey string) *RESTAccounts {
	return &RESTAccounts{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *RESTAccounts) SignUp(ctx context.Context, email, password, fullName string) error {
	resp, err := a.post(ctx, "/v1/accounts", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
	}
	return a.checkStatus(resp)
}

func (a *RESTAccounts) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+"/v1/accounts/"+url.PathEscape(email), nil)
	if err != nil {
		return false, fmt.Errorf("build accounts request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "account provider unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, sentinel.ErrNotFound
	}
	if err := a.checkStatus(resp); err != nil {
		return false, err
	}

	var account struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed account provider response")
	}
	return account.Verified, nil
}

func (a *RESTAccounts) ResendVerification(ctx context.Context, email string) error {
	resp, err := a.post(ctx, "/v1/accounts/"+url.PathEscape(email)+"/verification", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return sentinel.ErrNotFound
	}
	return a.checkStatus(resp)
}

func (a *RESTAccounts) VerifyEmail(ctx context.Context, token string) error {
	resp, err := a.post(ctx, "/v1/verifications/"+url.PathEscape(token), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return sentinel.ErrNotFound
	}
	return a.checkStatus(resp)
}

// CheckPassword verifies a login attempt against the hosted backend.
func (a *RESTAccounts) CheckPassword(ctx context.Context, email, password string) error {
	resp, err := a.post(ctx, "/v1/credentials/check", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusNotFound:
		return sentinel.ErrNotFound
	case http.StatusUnauthorized:
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return a.checkStatus(resp)
}

func (a *RESTAccounts) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return nil, fmt.Errorf("encode accounts request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &payload)
	if err != nil {
		return nil, fmt.Errorf("build accounts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "account provider unreachable")
	}
	return resp, nil
}

func (a *RESTAccounts) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 400 {
		return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("account provider returned %d", resp.StatusCode))
	}
	return nil
}
