package specialists

import (
	"context"
	"sync"
)

// InMemoryStore serves profiles from process memory, seeded from fixtures in
// development and from test data in tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	specialists []Specialist
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Replace(specialists []Specialist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specialists = specialists
}

func (s *InMemoryStore) ListSpecialists(_ context.Context) ([]Specialist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Specialist(nil), s.specialists...), nil
}
