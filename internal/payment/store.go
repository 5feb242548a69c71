package payment

import (
	"context"

	id "neuroportal/pkg/domain"
)

// Store persists payment attempts, successes and failures both.
type Store interface {
	Save(ctx context.Context, payment Payment) error
	ListByMember(ctx context.Context, memberID id.MemberID) ([]Payment, error)
}
