package audit

import (
	"context"
	"log/slog"
)

// Sink receives events drained from the inbox. The durable store and the
// Kafka producer both satisfy it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and fans them out to every
// configured sink. Sink failures are logged and skipped; one broken sink must
// not stall the others or the inbox.
type Worker struct {
	sinks []Sink
	inbox <-chan Event
	log   *slog.Logger
}

func NewWorker(inbox <-chan Event, log *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{sinks: sinks, inbox: inbox, log: log}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, sink := range w.sinks {
				if err := sink.Append(ctx, event); err != nil {
					w.log.ErrorContext(ctx, "audit sink append failed",
						"type", event.Type, "event_id", event.ID, "error", err)
				}
			}
		}
	}
}
