package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroportal/internal/audit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherStampsIdentityAndTime(t *testing.T) {
	publisher := audit.NewChannelPublisher(4, discardLogger())

	publisher.Publish(audit.Event{Type: audit.EventSessionStarted})

	event := <-publisher.Inbox()
	assert.NotZero(t, event.ID)
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, audit.EventSessionStarted, event.Type)
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	publisher := audit.NewChannelPublisher(1, discardLogger())

	publisher.Publish(audit.Event{Type: audit.EventPaymentSucceeded})
	// The inbox holds one event; this one must be dropped, not block.
	done := make(chan struct{})
	go func() {
		publisher.Publish(audit.Event{Type: audit.EventPaymentFailed})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full inbox")
	}

	event := <-publisher.Inbox()
	assert.Equal(t, audit.EventPaymentSucceeded, event.Type)
}

func TestWorkerDrainsIntoStore(t *testing.T) {
	publisher := audit.NewChannelPublisher(8, discardLogger())
	store := audit.NewInMemoryStore()
	worker := audit.NewWorker(publisher.Inbox(), discardLogger(), store)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	publisher.Publish(audit.Event{Type: audit.EventApplicationStarted, SessionID: "s-1"})
	publisher.Publish(audit.Event{Type: audit.EventApplicationSubmitted, SessionID: "s-1"})

	require.Eventually(t, func() bool {
		events, err := store.List(context.Background(), 10)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	events, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, audit.EventApplicationSubmitted, events[0].Type)

	cancel()
	assert.ErrorIs(t, <-finished, context.Canceled)
}

type failingSink struct{ calls int }

func (f *failingSink) Append(context.Context, audit.Event) error {
	f.calls++
	return errors.New("sink down")
}

func TestWorkerSkipsFailingSink(t *testing.T) {
	publisher := audit.NewChannelPublisher(8, discardLogger())
	broken := &failingSink{}
	store := audit.NewInMemoryStore()
	worker := audit.NewWorker(publisher.Inbox(), discardLogger(), broken, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	publisher.Publish(audit.Event{Type: audit.EventPaymentFailed})

	require.Eventually(t, func() bool {
		events, err := store.List(context.Background(), 1)
		return err == nil && len(events) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, broken.calls)
}
