package membership

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

// AccountProvider is the identity collaborator behind the first two wizard
// steps. The hosted deployment points this at the managed auth backend; the
// local provider below is the self-contained implementation used for
// development and single-node installs.
type AccountProvider interface {
	SignUp(ctx context.Context, email, password, fullName string) error
	IsEmailVerified(ctx context.Context, email string) (bool, error)
	ResendVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
}

type localAccount struct {
	passwordHash []byte
	fullName     string
	verified     bool
	token        string
}

// LocalAccounts keeps accounts in process memory with bcrypt password hashes.
// Verification emails are stood in for by a logged token; VerifyEmail consumes
// it the way a mailed deep link would.
type LocalAccounts struct {
	mu       sync.Mutex
	accounts map[string]*localAccount
	byToken  map[string]string
	log      *slog.Logger
}

func NewLocalAccounts(log *slog.Logger) *LocalAccounts {
	return &LocalAccounts{
		accounts: make(map[string]*localAccount),
		byToken:  make(map[string]string),
		log:      log,
	}
}

func (a *LocalAccounts) SignUp(ctx context.Context, email, password, fullName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[email]; exists {
		return dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
	}

	token := newVerificationToken()
	a.accounts[email] = &localAccount{passwordHash: hash, fullName: fullName, token: token}
	a.byToken[token] = email

	// Stand-in for email delivery.
	a.log.InfoContext(ctx, "verification token issued", "email", email, "token", token)
	return nil
}

func (a *LocalAccounts) IsEmailVerified(_ context.Context, email string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	account, exists := a.accounts[email]
	if !exists {
		return false, sentinel.ErrNotFound
	}
	return account.verified, nil
}

func (a *LocalAccounts) ResendVerification(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	account, exists := a.accounts[email]
	if !exists {
		return sentinel.ErrNotFound
	}
	if account.verified {
		return nil
	}

	delete(a.byToken, account.token)
	account.token = newVerificationToken()
	a.byToken[account.token] = email

	a.log.InfoContext(ctx, "verification token reissued", "email", email, "token", account.token)
	return nil
}

func (a *LocalAccounts) VerifyEmail(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	email, exists := a.byToken[token]
	if !exists {
		return sentinel.ErrNotFound
	}
	account := a.accounts[email]
	account.verified = true
	delete(a.byToken, token)
	account.token = ""
	return nil
}

// CheckPassword verifies a login attempt against the stored hash.
func (a *LocalAccounts) CheckPassword(_ context.Context, email, password string) error {
	a.mu.Lock()
	account, exists := a.accounts[email]
	a.mu.Unlock()
	if !exists {
		return sentinel.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)); err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}

// pendingToken reports the outstanding verification token for an address.
func (a *LocalAccounts) pendingToken(email string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	account, exists := a.accounts[email]
	if !exists || account.token == "" {
		return "", false
	}
	return account.token, true
}

func newVerificationToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("membership: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
