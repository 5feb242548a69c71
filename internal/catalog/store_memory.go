package catalog

import (
	"context"
	"sync"
)

// InMemoryStore serves catalog snapshots from process memory. It backs
// development and tests, seeded from the embedded fixtures; list results are
// copies so callers can never mutate the canonical snapshot.
type InMemoryStore struct {
	mu           sync.RWMutex
	events       []Event
	webinars     []Webinar
	publications []Publication
	resources    []Resource
	videos       []Video
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Replace swaps in a full content snapshot.
func (s *InMemoryStore) Replace(events []Event, webinars []Webinar, publications []Publication, resources []Resource, videos []Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.webinars = webinars
	s.publications = publications
	s.resources = resources
	s.videos = videos
}

func (s *InMemoryStore) ListEvents(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...), nil
}

func (s *InMemoryStore) ListWebinars(_ context.Context) ([]Webinar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Webinar(nil), s.webinars...), nil
}

func (s *InMemoryStore) ListPublications(_ context.Context) ([]Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Publication(nil), s.publications...), nil
}

func (s *InMemoryStore) ListResources(_ context.Context) ([]Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Resource(nil), s.resources...), nil
}

func (s *InMemoryStore) ListVideos(_ context.Context) ([]Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Video(nil), s.videos...), nil
}
