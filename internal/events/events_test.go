package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := uuid.New()
	e, err := New("submissions", ActionCreated, id, "asha@agency.in", map[string]string{"candidate_name": "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "submissions.created", e.Type)
	assert.Equal(t, id, e.ID)
	assert.JSONEq(t, `{"candidate_name":"Alice"}`, string(e.Record))
	assert.WithinDuration(t, time.Now(), e.OccurredAt, time.Minute)

	e, err = New("clients", ActionDeleted, id, "", nil)
	require.NoError(t, err)
	assert.Nil(t, e.Record)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "record")
	assert.NotContains(t, string(data), "actor")

	_, err = New("clients", ActionUpdated, id, "", make(chan int))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	e, _ := New("interviews", ActionUpdated, uuid.New(), "", nil)
	require.NoError(t, r.Publish(context.Background(), e))

	got := r.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "interviews.updated", got[0].Type)

	got[0].Type = "mutated"
	assert.Equal(t, "interviews.updated", r.Events()[0].Type)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}

func TestRabbitMQ_PublishConsume(t *testing.T) {
	url := os.Getenv("TEST_RABBITMQ_URL")
	if url == "" {
		t.Skip("Skipping RabbitMQ test: TEST_RABBITMQ_URL not set")
	}

	queue := "staffdesk.test." + uuid.NewString()[:8]
	mq, err := Dial(url, queue)
	require.NoError(t, err)
	defer mq.Close()

	e, _ := New("timesheets", ActionCreated, uuid.New(), "", nil)
	require.NoError(t, mq.Publish(context.Background(), e))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	received := make(chan Event, 1)
	go func() {
		_ = mq.Consume(ctx, func(got Event) {
			received <- got
			cancel()
		})
	}()

	select {
	case got := <-received:
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, "timesheets.created", got.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}
