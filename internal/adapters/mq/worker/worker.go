// Package worker drains completion events into the archive and the live stream.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/pkg/logger"
	"github.com/okian/tycoon/pkg/metrics"
)

const (
	defaultWorkerCount  = 2
	defaultRetries      = 2
	defaultRetryBackoff = 10 * time.Millisecond
	poolShutdownTimeout = 30 * time.Second
)

// Event is what workers read off the queue.
type Event = model.ProjectCompletedEvent

// Archiver persists completion events. Archive must be idempotent on event
// id and report false for an event it already holds.
type Archiver interface {
	Archive(ctx context.Context, ev model.ProjectCompletedEvent) (bool, error)
}

// Notifier hears about every newly archived event.
type Notifier interface {
	Notify(ctx context.Context, ev model.ProjectCompletedEvent)
}

// Queue is the read side of the event queue.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker consumes a queue until it closes.
type Worker interface {
	Run(ctx context.Context)
	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker archives events, retrying transient archive failures a
// bounded number of times before dropping the event.
type InMemoryWorker struct {
	name     string
	queue    Queue
	archiver Archiver
	notifier Notifier
	logger   logger.Logger

	retries int
	backoff time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewInMemoryWorker builds a worker reading queue into archiver. Without
// WithLogger it logs under its name.
func NewInMemoryWorker(queue Queue, archiver Archiver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		name:     "worker",
		queue:    queue,
		archiver: archiver,
		retries:  defaultRetries,
		backoff:  defaultRetryBackoff,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run blocks until ctx ends, Shutdown is called or the queue is drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := w.handle(ctx, ev); err != nil {
				w.logger.Error(ctx, "dropping event", logger.String("event_id", ev.EventID), logger.Error(err))
			}
		}
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown signals Run to return and waits for it, or for ctx.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker %s shutdown: %w", w.name, ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *InMemoryWorker) handle(ctx context.Context, ev Event) error { //nolint:gocritic // hugeParam
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1e3)
	}()

	stored, err := w.archive(ctx, ev)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "archive_error")
		return err
	}
	if !stored {
		w.logger.Debug(ctx, "event already archived", logger.String("event_id", ev.EventID))
		return nil
	}

	w.logger.Info(ctx, "review archived",
		logger.String("event_id", ev.EventID),
		logger.String("project_id", ev.Result.ProjectID),
		logger.Int("final_score", ev.Result.FinalScore),
	)
	if w.notifier != nil {
		w.notifier.Notify(ctx, ev)
	}
	return nil
}

func (w *InMemoryWorker) archive(ctx context.Context, ev Event) (bool, error) { //nolint:gocritic // hugeParam
	wait := w.backoff
	for attempt := 0; ; attempt++ {
		stored, err := w.archiver.Archive(ctx, ev)
		if err == nil || attempt >= w.retries {
			if err != nil {
				return false, fmt.Errorf("archive after %d attempts: %w", attempt+1, err)
			}
			return stored, nil
		}
		w.logger.Warn(ctx, "archive failed, retrying",
			logger.String("event_id", ev.EventID),
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool builds workerCount workers; a non-positive count uses the default.
func NewPool(workerCount int, queue Queue, archiver Archiver, notifier Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, 0, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i)), WithNotifier(notifier)}, opts...)
		p.workers = append(p.workers, NewInMemoryWorker(queue, archiver, wopts...))
	}
	return p
}

// Size is the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Start runs every worker in its own goroutine until ctx ends or the queue
// is drained.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Shutdown closes the queue and waits for the workers to drain it. Workers
// still busy when ctx or the pool timeout expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if c, ok := p.queue.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var err error
	for _, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker did not drain in time", logger.String("worker", w.name))
			w.stop()
			err = fmt.Errorf("worker pool shutdown: %w", ctx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return err
}
