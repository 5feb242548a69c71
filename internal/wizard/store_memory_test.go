package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
	"neuroportal/pkg/requestcontext"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore(time.Hour)
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) snapshot() State {
	w := New([]StepID{stepA, stepB}, stepA)
	return w.Snapshot(time.Now())
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	sessionID := id.SessionID(uuid.New())
	s.Require().NoError(s.store.Save(s.ctx, sessionID, s.snapshot()))

	found, err := s.store.Find(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Equal(stepA, found.Current)
}

func (s *InMemoryStoreSuite) TestFindUnknownSession() {
	_, err := s.store.Find(s.ctx, id.SessionID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestExpiredSessionIsGone() {
	sessionID := id.SessionID(uuid.New())
	saveTime := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	saveCtx := requestcontext.WithTime(s.ctx, saveTime)
	s.Require().NoError(s.store.Save(saveCtx, sessionID, s.snapshot()))

	// Still there just before the TTL elapses.
	findCtx := requestcontext.WithTime(s.ctx, saveTime.Add(59*time.Minute))
	_, err := s.store.Find(findCtx, sessionID)
	s.Require().NoError(err)

	// Gone after.
	findCtx = requestcontext.WithTime(s.ctx, saveTime.Add(2*time.Hour))
	_, err = s.store.Find(findCtx, sessionID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDelete() {
	sessionID := id.SessionID(uuid.New())
	s.Require().NoError(s.store.Save(s.ctx, sessionID, s.snapshot()))
	s.Require().NoError(s.store.Delete(s.ctx, sessionID))

	_, err := s.store.Find(s.ctx, sessionID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
