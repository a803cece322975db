package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher sends events to the broker exchange. Calls are serialized over a
// single AMQP channel, which is reopened when the broker has closed it.
type Publisher struct {
	mu     sync.Mutex
	broker *Broker
	ch     amqpChannel
	log    zerolog.Logger
}

func NewPublisher(b *Broker, log zerolog.Logger) (*Publisher, error) {
	ch, err := b.channel()
	if err != nil {
		return nil, err
	}
	return &Publisher{broker: b, ch: ch, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(channel, "error").Inc()
		p.log.Error().Err(err).Str("channel", channel).Msg("event payload not serializable")
		return
	}

	if err := p.send(ctx, channel, newPublishing(raw, time.Now())); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(channel, "error").Inc()
		p.log.Error().Err(err).Str("channel", channel).Msg("event publish failed")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(channel, "ok").Inc()
	p.log.Info().Str("channel", channel).RawJSON("payload", raw).Msg("event published")
}

// send publishes msg with routing key = channel. A channel found closed,
// before or during the publish, is replaced once.
func (p *Publisher) send(ctx context.Context, channel string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.reopen(); err != nil {
			return err
		}
	}

	err := p.ch.PublishWithContext(ctx, p.broker.exchange, channel, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		if rerr := p.reopen(); rerr != nil {
			return rerr
		}
		err = p.ch.PublishWithContext(ctx, p.broker.exchange, channel, false, false, msg)
	}
	return err
}

// reopen must be called with mu held.
func (p *Publisher) reopen() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	ch, err := p.broker.channel()
	if err != nil {
		return err
	}
	p.ch = ch
	p.log.Warn().Msg("amqp publish channel reopened")
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	return p.ch.Close()
}

func newPublishing(body []byte, now time.Time) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}
}
