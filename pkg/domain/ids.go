// Package domain holds identifier and value types shared across modules.
// Typed UUIDs prevent cross-type assignment at compile time; construct them
// via the Parse helpers at trust boundaries so the "valid, non-nil UUID"
// invariant holds everywhere else.
package domain

import (
	"github.com/google/uuid"

	dErrors "neuroportal/pkg/domain-errors"
)

type (
	// MemberID identifies a registered member of the association.
	MemberID uuid.UUID

	// ApplicationID identifies one membership application.
	ApplicationID uuid.UUID

	// SessionID identifies an authenticated portal session or an in-flight
	// wizard session.
	SessionID uuid.UUID

	// PaymentID identifies one dues payment attempt.
	PaymentID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what+" id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" id cannot be nil")
	}
	return parsed, nil
}

// NewMemberID mints a fresh random MemberID.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// NewApplicationID mints a fresh random ApplicationID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewSessionID mints a fresh random SessionID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewPaymentID mints a fresh random PaymentID.
func NewPaymentID() PaymentID { return PaymentID(uuid.New()) }

// ParseMemberID constructs a MemberID from external input.
func ParseMemberID(s string) (MemberID, error) {
	parsed, err := parseUUID(s, "member")
	return MemberID(parsed), err
}

// ParseApplicationID constructs an ApplicationID from external input.
func ParseApplicationID(s string) (ApplicationID, error) {
	parsed, err := parseUUID(s, "application")
	return ApplicationID(parsed), err
}

// ParseSessionID constructs a SessionID from external input.
func ParseSessionID(s string) (SessionID, error) {
	parsed, err := parseUUID(s, "session")
	return SessionID(parsed), err
}

// ParsePaymentID constructs a PaymentID from external input.
func ParsePaymentID(s string) (PaymentID, error) {
	parsed, err := parseUUID(s, "payment")
	return PaymentID(parsed), err
}

func (id MemberID) String() string      { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id PaymentID) String() string     { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id MemberID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
