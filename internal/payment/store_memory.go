package payment

import (
	"context"
	"sync"

	id "neuroportal/pkg/domain"
)

// InMemoryStore backs development and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	payments []Payment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, payment Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, payment)
	return nil
}

func (s *InMemoryStore) ListByMember(_ context.Context, memberID id.MemberID) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Payment
	for _, payment := range s.payments {
		if payment.MemberID == memberID {
			out = append(out, payment)
		}
	}
	return out, nil
}
