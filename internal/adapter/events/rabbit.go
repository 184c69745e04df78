package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/zurlegende/storefront-api/internal/usecase"
)

const (
	exchangeName = "order.events"
	routingKey   = "order.placed"
	queueName    = "order.placed.q"
)

// RabbitPublisher pushes order.placed events to the broker so downstream
// consumers (fulfilment, email) can react. Events are advisory: completion
// already happened when publishing runs.
type RabbitPublisher struct {
	ch *amqp.Channel
}

// NewRabbitPublisher declares the exchange, queue, and binding once at startup.
func NewRabbitPublisher(ch *amqp.Channel) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitPublisher)(nil)

// NoopPublisher is used when no broker is configured (local dev, tests).
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, usecase.OrderPlacedMsg) error { return nil }

var _ usecase.EventPublisher = NoopPublisher{}
