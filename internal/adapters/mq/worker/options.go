package worker

import (
	"time"

	"github.com/okian/tycoon/pkg/logger"
)

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName names the worker in logs.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNotifier forwards every newly archived event to n.
func WithNotifier(n Notifier) Option {
	return func(w *InMemoryWorker) {
		if n != nil {
			w.notifier = n
		}
	}
}

// WithRetry sets how many times a failed archive write is retried and the
// first backoff, which doubles per attempt.
func WithRetry(retries int, backoff time.Duration) Option {
	return func(w *InMemoryWorker) {
		if retries >= 0 {
			w.retries = retries
		}
		if backoff > 0 {
			w.backoff = backoff
		}
	}
}
