package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher accepts events for asynchronous delivery. Publish must never block
// the request path beyond a bounded enqueue.
type Publisher interface {
	Publish(event Event)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// ChannelPublisher enqueues events into a bounded inbox drained by a Worker.
// When the inbox is full the event is dropped and counted; audit delivery is
// best-effort and must not back-pressure member requests.
type ChannelPublisher struct {
	inbox chan Event
	log   *slog.Logger
	now   func() time.Time
}

func NewChannelPublisher(size int, log *slog.Logger) *ChannelPublisher {
	if size < 1 {
		panic("audit: publisher inbox size must be positive")
	}
	return &ChannelPublisher{
		inbox: make(chan Event, size),
		log:   log,
		now:   time.Now,
	}
}

func (p *ChannelPublisher) Publish(event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}
	select {
	case p.inbox <- event:
	default:
		p.log.Warn("audit inbox full, event dropped", "type", event.Type, "event_id", event.ID)
	}
}

// Inbox exposes the drain side for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}
