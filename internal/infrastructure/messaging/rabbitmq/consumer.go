package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/ports"
)

// ErrDeliveriesClosed is returned by Consumer.Run when the broker stops
// delivering, e.g. because the connection dropped.
var ErrDeliveriesClosed = errors.New("amqp deliveries closed")

var _ ports.EventSource = (*Consumer)(nil)

// Consumer binds a private, auto-deleted queue to the requested routing
// keys. Messages are acknowledged on delivery, so a crash may drop them.
type Consumer struct {
	broker *Broker
	log    zerolog.Logger
}

func NewConsumer(b *Broker, log zerolog.Logger) *Consumer {
	return &Consumer{broker: b, log: log}
}

func (c *Consumer) Run(ctx context.Context, channels []string, handle func(ports.Message)) error {
	ch, err := c.broker.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare(
		"",    // server-generated name
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("amqp declare queue: %w", err)
	}

	for _, key := range channels {
		if err := ch.QueueBind(q.Name, key, c.broker.exchange, false, nil); err != nil {
			return fmt.Errorf("amqp bind %s: %w", key, err)
		}
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}
	c.log.Info().Str("queue", q.Name).Strs("channels", channels).Msg("subscribed")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			handle(ports.Message{Channel: d.RoutingKey, Payload: d.Body})
		}
	}
}
