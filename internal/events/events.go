// Package events publishes entity lifecycle events (created, updated, deleted) to a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one change to a record.
type Event struct {
	Type       string          `json:"type"`
	Resource   string          `json:"resource"`
	Action     string          `json:"action"`
	ID         uuid.UUID       `json:"id"`
	Actor      string          `json:"actor,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Record     json.RawMessage `json:"record,omitempty"`
}

// New builds an event of type "<resource>.<action>". record is optional.
func New(resource, action string, id uuid.UUID, actor string, record any) (Event, error) {
	e := Event{
		Type:       resource + "." + action,
		Resource:   resource,
		Action:     action,
		ID:         id,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}
	if record != nil {
		data, err := json.Marshal(record)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal event record: %w", err)
		}
		e.Record = data
	}
	return e, nil
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
