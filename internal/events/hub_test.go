package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Fanout(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelB()
	assert.Equal(t, 2, h.Subscribers())

	e, _ := New("clients", ActionCreated, uuid.New(), "", nil)
	require.NoError(t, h.Publish(context.Background(), e))

	assert.Equal(t, e.Type, (<-a).Type)
	assert.Equal(t, e.Type, (<-b).Type)

	cancelA()
	cancelA()
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, h.Subscribers())
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, h.Publish(context.Background(), Event{Type: "timesheets.updated"}))
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, open := <-ch
	assert.False(t, open)
	cancel()

	late, _ := h.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

type failing struct{ err error }

func (f failing) Publish(context.Context, Event) error { return f.err }
func (f failing) Close() error                         { return f.err }

func TestMulti(t *testing.T) {
	var rec Recorder
	boom := errors.New("broker down")
	m := Multi{failing{err: boom}, &rec}

	err := m.Publish(context.Background(), Event{Type: "employees.deleted"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, rec.Events(), 1)

	assert.ErrorIs(t, m.Close(), boom)
	assert.NoError(t, Multi{&rec, Nop{}}.Close())
}
