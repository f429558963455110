package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue receives every staffdesk event.
const DefaultQueue = "staffdesk.events"

const publishTimeout = 5 * time.Second

// RabbitMQ publishes events as JSON messages to a durable queue.
type RabbitMQ struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// Dial connects to the broker at url and declares queue.
func Dial(url, queue string) (*RabbitMQ, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	log.Printf("[events] connected to RabbitMQ, queue %s", q.Name)
	return &RabbitMQ{conn: conn, channel: ch, queue: q}, nil
}

// Publish sends e to the queue as a persistent message.
func (r *RabbitMQ) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// channels are not safe for concurrent publishing
	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         e.Type,
			MessageId:    e.ID.String() + "/" + e.Action,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Consume calls handler for every event on the queue until ctx is done.
// Messages that do not decode are logged and dropped.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(Event)) error {
	r.mu.Lock()
	msgs, err := r.channel.ConsumeWithContext(
		ctx,
		r.queue.Name,
		"",    // consumer
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var e Event
			if err := json.Unmarshal(d.Body, &e); err != nil {
				log.Printf("[events] invalid event payload: %v", err)
				continue
			}
			handler(e)
		}
	}
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return r.conn.Close()
}
