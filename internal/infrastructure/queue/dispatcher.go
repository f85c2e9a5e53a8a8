package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/api/metrics"
	"github.com/oficiosya/hires-api/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// EventHandler delivers the side effects of one event. It must not return
// errors; failures are its own business.
type EventHandler interface {
	Dispatch(ctx context.Context, ev domain.TransitionEvent)
}

// Dispatcher routes committed hire events to a fixed set of workers using
// consistent hashing on the hire id, guaranteeing per-hire event ordering.
// Publish never blocks the caller.
type Dispatcher struct {
	workers []chan domain.TransitionEvent
	handler EventHandler
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler EventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TransitionEvent, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TransitionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Stop has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands ev to the worker responsible for its hire. When that worker's
// queue is full, or the dispatcher is stopped, the event is dropped and
// logged: the write it describes has already succeeded.
func (d *Dispatcher) Publish(ev domain.TransitionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("hire_id", ev.HireID).Str("kind", string(ev.Kind)).Msg("dispatcher stopped, event dropped")
		metrics.DispatchDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(ev.ShardKey())
	select {
	case d.workers[idx] <- ev:
		metrics.DispatchQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("hire_id", ev.HireID).
			Str("kind", string(ev.Kind)).
			Int("worker_id", idx).
			Msg("dispatch queue full, event dropped")
		metrics.DispatchDroppedTotal.Inc()
	}
}

// Stop refuses new events, lets workers finish what is queued and waits for
// them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a hire id deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TransitionEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.DispatchQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.log.Debug().
				Str("hire_id", ev.HireID).
				Str("kind", string(ev.Kind)).
				Int("worker_id", id).
				Msg("dispatching event")
			d.handler.Dispatch(ctx, ev)
		}
	}
}
