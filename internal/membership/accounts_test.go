package membership

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "neuroportal/pkg/domain-errors"
	"neuroportal/pkg/platform/sentinel"
)

func newLocalAccounts() *LocalAccounts {
	return NewLocalAccounts(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLocalAccountsSignUpAndVerify(t *testing.T) {
	accounts := newLocalAccounts()
	ctx := context.Background()

	require.NoError(t, accounts.SignUp(ctx, "amina@example.org", "correct horse battery", "Amina Hassan"))

	verified, err := accounts.IsEmailVerified(ctx, "amina@example.org")
	require.NoError(t, err)
	assert.False(t, verified)

	token, ok := accounts.pendingToken("amina@example.org")
	require.True(t, ok)
	require.NoError(t, accounts.VerifyEmail(ctx, token))

	verified, err = accounts.IsEmailVerified(ctx, "amina@example.org")
	require.NoError(t, err)
	assert.True(t, verified)

	// A token is single-use.
	assert.ErrorIs(t, accounts.VerifyEmail(ctx, token), sentinel.ErrNotFound)
}

func TestLocalAccountsDuplicateEmail(t *testing.T) {
	accounts := newLocalAccounts()
	ctx := context.Background()

	require.NoError(t, accounts.SignUp(ctx, "amina@example.org", "correct horse battery", "Amina Hassan"))
	err := accounts.SignUp(ctx, "amina@example.org", "another password", "Impostor")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestLocalAccountsResendRotatesToken(t *testing.T) {
	accounts := newLocalAccounts()
	ctx := context.Background()

	require.NoError(t, accounts.SignUp(ctx, "amina@example.org", "correct horse battery", "Amina Hassan"))
	first, ok := accounts.pendingToken("amina@example.org")
	require.True(t, ok)

	require.NoError(t, accounts.ResendVerification(ctx, "amina@example.org"))
	second, ok := accounts.pendingToken("amina@example.org")
	require.True(t, ok)
	assert.NotEqual(t, first, second)

	// The rotated-out token no longer works.
	assert.ErrorIs(t, accounts.VerifyEmail(ctx, first), sentinel.ErrNotFound)
	assert.NoError(t, accounts.VerifyEmail(ctx, second))
}

func TestLocalAccountsCheckPassword(t *testing.T) {
	accounts := newLocalAccounts()
	ctx := context.Background()

	require.NoError(t, accounts.SignUp(ctx, "amina@example.org", "correct horse battery", "Amina Hassan"))

	assert.NoError(t, accounts.CheckPassword(ctx, "amina@example.org", "correct horse battery"))

	err := accounts.CheckPassword(ctx, "amina@example.org", "wrong")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	assert.ErrorIs(t, accounts.CheckPassword(ctx, "nobody@example.org", "x"), sentinel.ErrNotFound)
}

func TestLocalAccountsUnknownEmail(t *testing.T) {
	accounts := newLocalAccounts()

	_, err := accounts.IsEmailVerified(context.Background(), "nobody@example.org")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	assert.ErrorIs(t, accounts.ResendVerification(context.Background(), "nobody@example.org"), sentinel.ErrNotFound)
}
