package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroportal/internal/audit"
	"neuroportal/internal/auth"
	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

type fakeChecker struct {
	valid map[string]string
}

func (f *fakeChecker) CheckPassword(_ context.Context, email, password string) error {
	stored, exists := f.valid[email]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored != password {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return nil
}

func newAuthService(resolve auth.MemberResolver) *auth.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker := &fakeChecker{valid: map[string]string{"grace@example.org": "correct horse battery"}}
	tokens := auth.NewTokenService("test-signing-key", "neuroportal", time.Hour)
	return auth.NewService(checker, resolve, tokens, audit.NopPublisher{}, log)
}

func TestLoginIssuesMemberSession(t *testing.T) {
	memberID := id.NewMemberID()
	service := newAuthService(func(context.Context, string) (id.MemberID, error) {
		return memberID, nil
	})

	session, err := service.Login(context.Background(), "grace@example.org", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, memberID, session.MemberID)
	assert.Equal(t, int64(3600), session.ExpiresIn)
}

func TestLoginApplicantWithoutMemberRecord(t *testing.T) {
	service := newAuthService(func(context.Context, string) (id.MemberID, error) {
		return id.MemberID{}, sentinel.ErrNotFound
	})

	session, err := service.Login(context.Background(), "grace@example.org", "correct horse battery")
	require.NoError(t, err)
	assert.True(t, session.MemberID.IsZero())
	assert.NotEmpty(t, session.Token)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	service := newAuthService(func(context.Context, string) (id.MemberID, error) {
		return id.NewMemberID(), nil
	})

	for range 5 {
		_, err := service.Login(context.Background(), "grace@example.org", "wrong")
		require.Error(t, err)
	}

	// Even the correct password is rejected while the pair is locked.
	_, err := service.Login(context.Background(), "grace@example.org", "correct horse battery")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	service := newAuthService(nil)

	_, wrongPass := service.Login(context.Background(), "grace@example.org", "wrong")
	_, unknown := service.Login(context.Background(), "nobody@example.org", "whatever")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error(), "responses must not reveal whether the account exists")
	assert.True(t, dErrors.HasCode(wrongPass, dErrors.CodeUnauthorized))
}
