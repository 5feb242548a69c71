// Package audit records member-visible actions taken through the portal:
// application submissions, payments, and session starts. Events are emitted
// through a bounded channel worker so the request path never blocks on the
// audit sink.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an auditable action.
type EventType string

const (
	EventApplicationStarted   EventType = "application.started"
	EventApplicationSubmitted EventType = "application.submitted"
	EventPaymentSucceeded     EventType = "payment.succeeded"
	EventPaymentFailed        EventType = "payment.failed"
	EventSessionStarted       EventType = "session.started"
)

// Event is one audit record. Keep it transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	Type       EventType         `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	SessionID  string            `json:"session_id,omitempty"`
	MemberID   string            `json:"member_id,omitempty"`
	ClientIP   string            `json:"client_ip,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
}
