package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventSource    = (*Subscriber)(nil)
)

// Publisher sends JSON events over Redis pub/sub. Delivery is at most once.
type Publisher struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewPublisher(client *redis.Client, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

// Publish never fails the caller; errors are logged and counted.
func (p *Publisher) Publish(ctx context.Context, channel string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(channel, "error").Inc()
		p.log.Error().Err(err).Str("channel", channel).Msg("event payload not serializable")
		return
	}

	if err := p.client.Publish(ctx, channel, raw).Err(); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(channel, "error").Inc()
		p.log.Error().Err(err).Str("channel", channel).Msg("event publish failed")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(channel, "ok").Inc()
	p.log.Info().Str("channel", channel).RawJSON("payload", raw).Msg("event published")
}

// Subscriber joins Redis channels and forwards their messages.
type Subscriber struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewSubscriber(client *redis.Client, log zerolog.Logger) *Subscriber {
	return &Subscriber{client: client, log: log}
}

// Run blocks until ctx is cancelled or the subscription is closed.
func (s *Subscriber) Run(ctx context.Context, channels []string, handle func(ports.Message)) error {
	ps := s.client.Subscribe(ctx, channels...)
	defer func() { _ = ps.Close() }()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	s.log.Info().Strs("channels", channels).Msg("subscribed")

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			handle(ports.Message{Channel: m.Channel, Payload: []byte(m.Payload)})
		}
	}
}
