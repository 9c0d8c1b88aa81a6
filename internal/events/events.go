// Package events carries the post-commit fan-out of engine writes to
// external collaborators (email dispatch, notifications, attendance).
//
// Writers append to an Outbox while their transaction is open and flush it
// only after the transaction committed, so collaborators never observe
// rolled back state.
package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types.
const (
	TypeMatchCreated      = "match.created"
	TypeMatchResult       = "match.result"
	TypeGoalRecorded      = "goal.recorded"
	TypeTournamentCreated = "tournament.created"
)

// Event is a single fan-out message.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

// Publisher delivers events to collaborators.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Outbox buffers events produced inside a transaction.
type Outbox struct {
	events []Event
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Add appends an event. A nil outbox discards it.
func (o *Outbox) Add(eventType string, payload map[string]any) {
	if o == nil {
		return
	}
	o.events = append(o.events, Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
}

// Len returns the number of buffered events.
func (o *Outbox) Len() int {
	if o == nil {
		return 0
	}
	return len(o.events)
}

// Flush publishes buffered events in insertion order and empties the outbox.
// Delivery failures are logged and do not stop the remaining events.
func (o *Outbox) Flush(ctx context.Context, pub Publisher, logger *zap.SugaredLogger) {
	if o == nil || pub == nil {
		return
	}
	pending := o.events
	o.events = nil
	for _, ev := range pending {
		if err := pub.Publish(ctx, ev); err != nil {
			logger.Warnw("failed to publish event", "type", ev.Type, "error", err)
		}
	}
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *zap.SugaredLogger
}

// NewLogPublisher creates a publisher that logs every event at info level.
func NewLogPublisher(logger *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Infow("event published",
		"type", event.Type,
		"occurred_at", event.OccurredAt,
		"payload", event.Payload,
	)
	return nil
}

// Recorder keeps published events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
