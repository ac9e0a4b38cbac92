package repository

import "time"

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithClock sets the time source used to stamp archived rows.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMaxLimit caps the number of rows TopN may return.
func WithMaxLimit(limit int) Option {
	return func(s *SQLiteStore) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}
