package rabbitmq

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type published struct {
	exchange string
	key      string
	body     []byte
}

// fakeChannel records what the adapters do with an AMQP channel.
type fakeChannel struct {
	mu         sync.Mutex
	closed     bool
	publishErr []error // consumed one per publish, nil once exhausted
	published  []published
	bound      []string
	deliveries chan amqp.Delivery
	consumeErr error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.publishErr) > 0 {
		err := f.publishErr[0]
		f.publishErr = f.publishErr[1:]
		if err != nil {
			return err
		}
	}
	f.published = append(f.published, published{exchange: exchange, key: key, body: msg.Body})
	return nil
}

func (f *fakeChannel) QueueDeclare(string, bool, bool, bool, bool, amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: "amq.gen-test"}, nil
}

func (f *fakeChannel) QueueBind(_, key, _ string, _ bool, _ amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = append(f.bound, key)
	return nil
}

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.deliveries, nil
}

func (f *fakeChannel) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeBroker hands out the given channels in order.
func fakeBroker(chans ...*fakeChannel) (*Broker, *int) {
	opened := 0
	b := &Broker{exchange: "users.events"}
	b.open = func() (amqpChannel, error) {
		if opened >= len(chans) {
			return nil, errors.New("no channel left")
		}
		ch := chans[opened]
		opened++
		return ch, nil
	}
	return b, &opened
}
