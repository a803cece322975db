package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

// ErrUnknownChannel is returned by Handle for messages on a channel the
// monitor has no decoder for.
var ErrUnknownChannel = errors.New("unknown channel")

type channelHandler func(log zerolog.Logger, payload []byte) error

var _ ports.EventHandler = (*EventMonitor)(nil)

// EventMonitor logs events observed on the monitored channels. It keeps no
// state and triggers no side effects besides logging.
type EventMonitor struct {
	log      zerolog.Logger
	handlers map[string]channelHandler
}

func NewEventMonitor(log zerolog.Logger) *EventMonitor {
	return &EventMonitor{
		log: log,
		handlers: map[string]channelHandler{
			domain.ChannelUserCreated:     userHandler("user registered"),
			domain.ChannelUserUpdated:     userHandler("user profile changed"),
			domain.ChannelUserDeleted:     handleUserDeleted,
			domain.ChannelActivityCreated: activityHandler("activity created"),
			domain.ChannelActivityUpdated: activityHandler("activity updated"),
			domain.ChannelActivityDeleted: activityHandler("activity deleted"),
		},
	}
}

// Handle dispatches msg to the handler registered for its channel.
func (m *EventMonitor) Handle(_ context.Context, msg ports.Message) error {
	h, ok := m.handlers[msg.Channel]
	if !ok {
		metrics.EventsReceivedTotal.WithLabelValues(msg.Channel, "unknown_channel").Inc()
		return fmt.Errorf("handle event: %w: %s", ErrUnknownChannel, msg.Channel)
	}

	if err := h(m.log.With().Str("channel", msg.Channel).Logger(), msg.Payload); err != nil {
		metrics.EventsReceivedTotal.WithLabelValues(msg.Channel, "decode_error").Inc()
		return fmt.Errorf("handle event %s: %w", msg.Channel, err)
	}

	metrics.EventsReceivedTotal.WithLabelValues(msg.Channel, "ok").Inc()
	return nil
}

func userHandler(summary string) channelHandler {
	return func(log zerolog.Logger, payload []byte) error {
		var p domain.UserEventPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode user payload: %w", err)
		}
		log.Info().Int64("user_id", p.ID).Str("email", p.Email).Str("name", p.Name).Msg(summary)
		return nil
	}
}

func handleUserDeleted(log zerolog.Logger, payload []byte) error {
	var p domain.UserDeletedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode user payload: %w", err)
	}
	log.Info().Int64("user_id", p.ID).Msg("user removed")
	return nil
}

// Activity payloads belong to another service, so they are logged as-is.
func activityHandler(summary string) channelHandler {
	return func(log zerolog.Logger, payload []byte) error {
		var p map[string]any
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decode activity payload: %w", err)
		}
		log.Info().Interface("payload", p).Msg(summary)
		return nil
	}
}
