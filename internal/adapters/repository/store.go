// Package repository archives completed-project reviews.
package repository

import (
	"context"

	"github.com/okian/tycoon/internal/domain/model"
)

// Entry is one archived review with its position in the score ranking.
type Entry struct {
	Rank       int                    `json:"rank"`
	EventID    string                 `json:"event_id"`
	Result     model.CompletionResult `json:"result"`
	ArchivedAt int64                  `json:"archived_at"` // unix millis
}

// Store provides read/write access to the review archive.
type Store interface {
	// Archive stores the event's review. Archiving the same event id twice is
	// a no-op that reports false.
	Archive(ctx context.Context, ev model.ProjectCompletedEvent) (bool, error)

	// Get returns the review of a project.
	// Returns ErrNotFound if the project was never archived.
	Get(ctx context.Context, projectID string) (Entry, error)

	// TopN returns the n best reviews ordered by final score desc, then by
	// completion day.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of archived reviews.
	Count(ctx context.Context) (int, error)

	Close() error
}
