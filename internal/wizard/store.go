package wizard

import (
	"context"

	id "neuroportal/pkg/domain"
)

// Store persists wizard snapshots between requests, keyed by the session that
// owns the flow. Implementations return sentinel.ErrNotFound for unknown or
// expired sessions.
type Store interface {
	Save(ctx context.Context, sessionID id.SessionID, state State) error
	Find(ctx context.Context, sessionID id.SessionID) (State, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}
