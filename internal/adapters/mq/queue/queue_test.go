package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/tycoon/internal/domain/model"
)

func completed(id string, score int) Event {
	return Event{EventID: id, Result: model.CompletionResult{ProjectID: "p-" + id, FinalScore: score}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if !q.Enqueue(ctx, completed("event1", 80)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	event := <-q.Dequeue(ctx)
	if event.EventID != "event1" || event.Result.FinalScore != 80 {
		t.Errorf("unexpected event %+v", event)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if err := q.Publish(ctx, completed("event1", 1)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := q.Publish(ctx, completed("event2", 2)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := q.Publish(ctx, completed("event3", 3)); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if q.Enqueue(ctx, completed("event4", 4)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if !q.Full() {
		t.Error("expected Full at capacity")
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Publish(ctx, completed("event1", 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 8, 50

	var consumed sync.WaitGroup
	consumed.Add(producers * perProducer)
	seen := make(chan string, producers*perProducer)
	for i := 0; i < 4; i++ {
		go func() {
			for event := range q.Dequeue(ctx) {
				seen <- event.EventID
				consumed.Done()
			}
		}()
	}

	var produced sync.WaitGroup
	for i := 0; i < producers; i++ {
		produced.Add(1)
		go func(id int) {
			defer produced.Done()
			for j := 0; j < perProducer; j++ {
				for !q.Enqueue(ctx, completed(fmt.Sprintf("event%d_%d", id, j), j)) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}
	produced.Wait()
	consumed.Wait()
	_ = q.Close()

	close(seen)
	unique := map[string]bool{}
	for id := range seen {
		unique[id] = true
	}
	if len(unique) != producers*perProducer {
		t.Errorf("expected %d distinct events, got %d", producers*perProducer, len(unique))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, completed("event1", 1)) {
		t.Error("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Publish(ctx, completed("event2", 2)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Buffered events drain before the channel closes.
	ch := q.Dequeue(ctx)
	timeout := time.After(time.Second)
	var drained []string
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				if len(drained) != 1 || drained[0] != "event1" {
					t.Errorf("expected to drain event1, got %v", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained = append(drained, ev.EventID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	for i := 0; i < defaultQueueCapacity; i++ {
		if err := q.Publish(ctx, completed(fmt.Sprintf("event%d", i), i)); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if !q.Full() {
		t.Errorf("expected Full after %d events", defaultQueueCapacity)
	}
	if q.Enqueue(ctx, completed("overflow", 0)) {
		t.Error("expected enqueue past the default capacity to fail")
	}
}

func TestInMemoryQueue_DequeueStopsWithContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())

	ch := q.Dequeue(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected no event from an empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("expected dequeue channel to close after cancel")
	}
	if q.IsClosed() {
		t.Error("cancelling a reader must not close the queue")
	}
}
