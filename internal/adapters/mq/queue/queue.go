// Package queue buffers project-completed events between the game service
// and the archive workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Event is the payload carried by the queue.
type Event = model.ProjectCompletedEvent

// Queue is a bounded event buffer. Producers never block.
type Queue interface {
	// Enqueue reports whether e was accepted.
	Enqueue(ctx context.Context, e Event) bool
	// Dequeue streams events until the queue is closed and drained, or ctx ends.
	Dequeue(ctx context.Context) <-chan Event
	Len() int
	// Close stops intake. Buffered events stay readable.
	Close() error
	IsClosed() bool
}

// InMemoryQueue is a Queue backed by a buffered channel.
type InMemoryQueue struct {
	mu       sync.RWMutex
	events   chan Event
	capacity int
	closed   bool
}

// NewInMemoryQueue builds a queue holding up to the configured capacity
// (1024 by default) and publishes its capacity gauge.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue is Publish without the reason; it reports false on any rejection.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam
	return q.Publish(ctx, e) == nil
}

// Publish offers e to the queue. It fails fast with ErrClosed, ErrFull or the
// context error instead of waiting for room.
func (q *InMemoryQueue) Publish(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam
	if err := ctx.Err(); err != nil {
		return reject("context_cancelled", err)
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return reject("closed", ErrClosed)
	}
	select {
	case q.events <- e:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.events))
		return nil
	default:
		return reject("queue_full", ErrFull)
	}
}

func reject(reason string, err error) error {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
	return err
}

// Dequeue starts a goroutine that forwards buffered events to the returned
// channel. The channel closes once the queue is closed and drained, or ctx ends.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-q.events:
				if !ok {
					return
				}
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.events))
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Full reports whether the next Publish would fail with ErrFull.
func (q *InMemoryQueue) Full() bool {
	return len(q.events) >= q.capacity
}

// Len returns the number of buffered events and refreshes the size gauge.
func (q *InMemoryQueue) Len() int {
	n := len(q.events)
	metrics.UpdateQueueSize(n)
	return n
}

// Close is idempotent.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
