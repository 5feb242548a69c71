package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "neuroportal/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseMemberID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseMemberID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseMemberID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseMemberID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, MemberID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety between ID
// kinds. If this compiles, the invariant holds; the runtime check guards
// against the types collapsing into aliases.
func TestTypeDistinction(t *testing.T) {
	memberID := MemberID(uuid.New())
	applicationID := ApplicationID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ MemberID = applicationID   // compile error
	// var _ ApplicationID = memberID   // compile error

	assert.NotEqual(t, uuid.UUID(memberID), uuid.UUID(applicationID))
}

func TestParsePaymentMethod(t *testing.T) {
	t.Run("accepts allowlisted methods", func(t *testing.T) {
		for _, s := range []string{"bank_transfer", "mobile_money", "card"} {
			m, err := ParsePaymentMethod(s)
			require.NoError(t, err)
			assert.True(t, m.IsValid())
		}
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := ParsePaymentMethod("cheque")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects empty method", func(t *testing.T) {
		_, err := ParsePaymentMethod("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
