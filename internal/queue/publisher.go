package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends events to a durable RabbitMQ queue on the default
// exchange.  It opens a fresh connection for every publish.
type RabbitPublisher struct {
	url    string
	queue  string
	logger *log.Logger
}

// NewRabbitPublisher returns a publisher for queue at url.
func NewRabbitPublisher(url, queue string, logger *log.Logger) *RabbitPublisher {
	return &RabbitPublisher{url: url, queue: queue, logger: logger}
}

// PublishCompletionRecorded publishes evt as a persistent JSON message.
// Errors are returned unlogged; the caller decides whether they matter.
func (p *RabbitPublisher) PublishCompletionRecorded(ctx context.Context, evt CompletionRecordedEvent) error {
	if evt.Type == "" {
		evt.Type = CompletionRecordedType
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(3 * time.Second)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq declare %s: %w", p.queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         evt.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish to %s: %w", p.queue, err)
	}
	p.logger.Debug("event published", "type", evt.Type, "completed_date_id", evt.CompletedDateID)
	return nil
}

// NoopPublisher drops events.  Used when RABBITMQ_URL is empty.
type NoopPublisher struct{}

func (NoopPublisher) PublishCompletionRecorded(context.Context, CompletionRecordedEvent) error {
	return nil
}
