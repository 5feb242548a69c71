package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "neuroportal/pkg/domain"
	dErrors "neuroportal/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-signing-key", "neuroportal", time.Hour)
	memberID := id.NewMemberID()
	sessionID := id.NewSessionID()

	signed, err := tokens.Generate(memberID, sessionID, time.Now())
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, memberID.String(), claims.MemberID)
	assert.Equal(t, sessionID.String(), claims.SessionID)
}

func TestTokenWithoutMemberID(t *testing.T) {
	tokens := NewTokenService("test-signing-key", "neuroportal", time.Hour)

	signed, err := tokens.Generate(id.MemberID{}, id.NewSessionID(), time.Now())
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Empty(t, claims.MemberID)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := NewTokenService("test-signing-key", "neuroportal", time.Minute)

	signed, err := tokens.Generate(id.NewMemberID(), id.NewSessionID(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.ValidateToken(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	issuer := NewTokenService("key-one", "neuroportal", time.Hour)
	verifier := NewTokenService("key-two", "neuroportal", time.Hour)

	signed, err := issuer.Generate(id.NewMemberID(), id.NewSessionID(), time.Now())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(signed)
	assert.Error(t, err)
}

func TestTokenWrongIssuerRejected(t *testing.T) {
	issuer := NewTokenService("test-signing-key", "someone-else", time.Hour)
	verifier := NewTokenService("test-signing-key", "neuroportal", time.Hour)

	signed, err := issuer.Generate(id.NewMemberID(), id.NewSessionID(), time.Now())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(signed)
	assert.Error(t, err)
}
