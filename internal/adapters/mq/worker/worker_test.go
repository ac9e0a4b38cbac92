package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/tycoon/internal/adapters/mq/queue"
	"github.com/okian/tycoon/internal/adapters/mq/worker"
	"github.com/okian/tycoon/internal/domain/model"
	logging "github.com/okian/tycoon/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockArchive struct {
	mu     sync.Mutex
	stored map[string]model.ProjectCompletedEvent
	fail   map[string]error
}

func newMockArchive() *mockArchive {
	return &mockArchive{stored: map[string]model.ProjectCompletedEvent{}, fail: map[string]error{}}
}

func (m *mockArchive) Archive(_ context.Context, ev model.ProjectCompletedEvent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[ev.EventID]; ok {
		return false, err
	}
	if _, ok := m.stored[ev.EventID]; ok {
		return false, nil
	}
	m.stored[ev.EventID] = ev
	return true, nil
}

func (m *mockArchive) setError(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[id] = err
}

func (m *mockArchive) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stored[id]
	return ok
}

type mockNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *mockNotifier) Notify(_ context.Context, ev model.ProjectCompletedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, ev.EventID)
}

func (n *mockNotifier) seen() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ids...)
}

func completed(id string) model.ProjectCompletedEvent {
	return model.ProjectCompletedEvent{
		EventID: id,
		Result:  model.CompletionResult{ProjectID: "p-" + id, FinalScore: 75},
		TS:      time.Now(),
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		archive := newMockArchive()
		notifier := &mockNotifier{}
		w := worker.NewInMemoryWorker(q, archive, worker.WithName("test-worker"), worker.WithNotifier(notifier))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an event is processed", func() {
			q.Enqueue(ctx, completed("event-1"))

			convey.Convey("Then it is archived and broadcast once", func() {
				convey.So(eventually(func() bool { return len(notifier.seen()) == 1 }), convey.ShouldBeTrue)
				convey.So(archive.has("event-1"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the same event arrives twice", func() {
			q.Enqueue(ctx, completed("event-2"))
			q.Enqueue(ctx, completed("event-2"))
			q.Enqueue(ctx, completed("marker"))

			convey.Convey("Then only the first copy is broadcast", func() {
				convey.So(eventually(func() bool { return archive.has("marker") }), convey.ShouldBeTrue)
				convey.So(eventually(func() bool { return len(notifier.seen()) == 2 }), convey.ShouldBeTrue)
				convey.So(notifier.seen(), convey.ShouldResemble, []string{"event-2", "marker"})
			})
		})

		convey.Convey("When archiving fails", func() {
			archive.setError("event-3", errors.New("disk full"))
			q.Enqueue(ctx, completed("event-3"))
			q.Enqueue(ctx, completed("event-4"))

			convey.Convey("Then the worker keeps going without broadcasting the failure", func() {
				convey.So(eventually(func() bool { return archive.has("event-4") }), convey.ShouldBeTrue)
				convey.So(archive.has("event-3"), convey.ShouldBeFalse)
				convey.So(notifier.seen(), convey.ShouldNotContain, "event-3")
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.Convey("Then it stops gracefully and repeated calls are safe", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a started worker pool", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		archive := newMockArchive()
		notifier := &mockNotifier{}
		pool := worker.NewPool(3, q, archive, notifier)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When events are enqueued and the pool shuts down", func() {
			ids := []string{"a", "b", "c", "d", "e"}
			for _, id := range ids {
				convey.So(q.Enqueue(ctx, completed(id)), convey.ShouldBeTrue)
			}
			err := pool.Shutdown(context.Background())

			convey.Convey("Then the queue is drained before the workers stop", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, id := range ids {
					convey.So(archive.has(id), convey.ShouldBeTrue)
				}
				convey.So(notifier.seen(), convey.ShouldHaveLength, len(ids))
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newMockArchive(), nil)

		convey.Convey("Then the default size is used", func() {
			convey.So(pool.Size(), convey.ShouldEqual, 2)
		})
	})
}

type flakyArchive struct {
	*mockArchive
	mu       sync.Mutex
	failures int
}

func (f *flakyArchive) Archive(ctx context.Context, ev model.ProjectCompletedEvent) (bool, error) {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return false, errors.New("database is locked")
	}
	f.mu.Unlock()
	return f.mockArchive.Archive(ctx, ev)
}

func TestWorkerRetriesArchive(t *testing.T) {
	convey.Convey("Given an archive that fails twice before succeeding", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		archive := &flakyArchive{mockArchive: newMockArchive(), failures: 2}
		w := worker.NewInMemoryWorker(q, archive, worker.WithRetry(2, time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)
		q.Enqueue(ctx, completed("event-r"))

		convey.Convey("Then the third attempt stores the event", func() {
			convey.So(eventually(func() bool { return archive.has("event-r") }), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given retries disabled", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		archive := &flakyArchive{mockArchive: newMockArchive(), failures: 1}
		w := worker.NewInMemoryWorker(q, archive, worker.WithRetry(0, time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)
		q.Enqueue(ctx, completed("lost"))
		q.Enqueue(ctx, completed("kept"))

		convey.Convey("Then the failed event is dropped and the next one stored", func() {
			convey.So(eventually(func() bool { return archive.has("kept") }), convey.ShouldBeTrue)
			convey.So(archive.has("lost"), convey.ShouldBeFalse)
		})
	})
}
