package ports

import "context"

// EventPublisher sends domain events. Publishing is fire-and-forget:
// failures are handled inside the implementation.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload any)
}

// Message is a raw event received from the messaging backend.
type Message struct {
	Channel string
	Payload []byte
}

// EventHandler consumes received messages.
type EventHandler interface {
	Handle(ctx context.Context, msg Message) error
}

// EventSource delivers messages received on channels to handle until ctx is
// cancelled.
type EventSource interface {
	Run(ctx context.Context, channels []string, handle func(Message)) error
}
