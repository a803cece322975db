package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes received messages to a fixed set of workers using
// consistent hashing on the channel name, so messages of one channel are
// handled in arrival order.
type Dispatcher struct {
	workers []chan ports.Message
	handler ports.EventHandler
	log     zerolog.Logger
	wg      sync.WaitGroup
	done    <-chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.EventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Message, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.done = ctx.Done()
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Consume runs the dispatcher over source until the source stops. Workers
// run on a child context that is cancelled as soon as source.Run returns, so
// a failing source ends Consume with its error instead of leaving workers
// waiting for the parent context.
func (d *Dispatcher) Consume(ctx context.Context, source ports.EventSource, channels []string) error {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.Start(wctx)
	err := source.Run(wctx, channels, d.Enqueue)
	cancel()
	d.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event source: %w", err)
	}
	return nil
}

// Enqueue sends msg to the worker responsible for its channel. It blocks
// once that worker's buffer is full and drops msg after shutdown started.
func (d *Dispatcher) Enqueue(msg ports.Message) {
	idx := d.shardIndex(msg.Channel)
	select {
	case d.workers[idx] <- msg:
	case <-d.done:
		return
	}
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a channel name deterministically to a worker index.
func (d *Dispatcher) shardIndex(channel string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Message) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.handler.Handle(ctx, msg); err != nil {
				d.log.Warn().Err(err).
					Str("channel", msg.Channel).
					Int("worker_id", id).
					Msg("event handling failed")
			}
		}
	}
}
