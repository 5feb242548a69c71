package wizard

import (
	"context"
	"sync"
	"time"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
	"neuroportal/pkg/requestcontext"
)

// InMemoryStore keeps wizard snapshots in process memory. It is the default
// for development and tests; production deployments use the Redis store so
// sessions survive restarts.
type InMemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[id.SessionID]memoryEntry
}

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// NewInMemoryStore constructs the store. A non-positive TTL disables expiry.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		ttl:      ttl,
		sessions: make(map[id.SessionID]memoryEntry),
	}
}

func (s *InMemoryStore) Save(ctx context.Context, sessionID id.SessionID, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{state: state}
	if s.ttl > 0 {
		entry.expiresAt = requestcontext.Now(ctx).Add(s.ttl)
	}
	s.sessions[sessionID] = entry
	return nil
}

func (s *InMemoryStore) Find(ctx context.Context, sessionID id.SessionID) (State, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return State{}, sentinel.ErrNotFound
	}
	if !entry.expiresAt.IsZero() && requestcontext.Now(ctx).After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return State{}, sentinel.ErrNotFound
	}
	return entry.state, nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
