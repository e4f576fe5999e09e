// Package queue bridges moderation events to an AMQP broker for the dashboard.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/events"
)

// Publisher pushes serialized events onto a durable queue. Publishing is
// best-effort; a broker failure is logged and never blocks the workflow that
// emitted the event.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// Dial connects to the broker and declares the queue.
func Dial(url, queueName string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &Publisher{conn: conn, channel: channel, queue: queueName, logger: logger}, nil
}

// Publish serializes and sends one event.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Bridge subscribes the publisher to every event type on the dispatcher.
func (p *Publisher) Bridge(dispatcher events.Dispatcher) {
	for _, eventType := range events.AllTypes() {
		dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			if err := p.Publish(ctx, event); err != nil {
				p.logger.Warn("event bridge publish failed",
					zap.String("event_type", string(event.Type)), zap.Error(err))
			}
			return nil
		})
	}
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
