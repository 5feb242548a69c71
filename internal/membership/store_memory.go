package membership

import (
	"context"
	"sync"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
)

// InMemoryStore backs development and tests.
type InMemoryStore struct {
	mu           sync.RWMutex
	applications map[id.ApplicationID]Application
	byEmail      map[string]id.ApplicationID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		applications: make(map[id.ApplicationID]Application),
		byEmail:      make(map[string]id.ApplicationID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, application Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, taken := s.byEmail[application.Email]; taken && existing != application.ID {
		return sentinel.ErrConflict
	}
	s.applications[application.ID] = application
	s.byEmail[application.Email] = application.ID
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, applicationID id.ApplicationID) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	application, exists := s.applications[applicationID]
	if !exists {
		return Application{}, sentinel.ErrNotFound
	}
	return application, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	applicationID, exists := s.byEmail[email]
	if !exists {
		return Application{}, sentinel.ErrNotFound
	}
	return s.applications[applicationID], nil
}
