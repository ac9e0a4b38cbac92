// Package model contains domain models passed between layers.
package model

import "time"

// CompletionResult is the finalized review of a completed project.
type CompletionResult struct {
	ProjectID       string `json:"project_id"`
	Title           string `json:"title"`
	Genre           string `json:"genre,omitempty"`
	QualityScore    int    `json:"quality_score"`    // 0-100, mean of per-stage quality
	EfficiencyScore int    `json:"efficiency_score"` // 0-100, mean of per-stage efficiency
	FinalScore      int    `json:"final_score"`
	Payout          int    `json:"payout"`
	RepGain         int    `json:"rep_gain"`
	XPGain          int    `json:"xp_gain"`
	Day             int    `json:"day"`
}

// ProjectCompletedEvent is emitted once per completed project for the
// notification and persistence layers.
type ProjectCompletedEvent struct {
	EventID string           `json:"event_id"` // unique id for idempotent archiving
	Result  CompletionResult `json:"result"`
	TS      time.Time        `json:"ts"`
}
