// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches log output to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the completion event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of archive workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many work request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// RandomSeed seeds the minigame trigger roll.
	RandomSeed int64 `koanf:"random_seed"`

	TriggerCooldownDays int     `koanf:"trigger_cooldown_days"`
	TriggerFireChance   float64 `koanf:"trigger_fire_chance"`

	XPBase          int     `koanf:"xp_base"`
	XPPerDifficulty int     `koanf:"xp_per_difficulty"`
	ReputationScale float64 `koanf:"reputation_scale"`

	AttributeScaling bool `koanf:"attribute_scaling"`
	NormalizeFocus   bool `koanf:"normalize_focus"`

	StaffMinEnergy      int `koanf:"staff_min_energy"`
	StaffWorkEnergyCost int `koanf:"staff_work_energy_cost"`
	StaffRestEnergy     int `koanf:"staff_rest_energy"`
	TrainingDays        int `koanf:"training_days"`

	// ArchivePath is the SQLite file holding completed reviews.
	ArchivePath string `koanf:"archive_path"`
	// SnapshotPath is where save/load reads and writes the game state.
	SnapshotPath string `koanf:"snapshot_path"`
	// TemplatesPath optionally replaces the embedded template catalog.
	TemplatesPath string `koanf:"templates_path"`

	// MaxReviewLimit caps GET /reviews?limit.
	MaxReviewLimit int `koanf:"max_review_limit"`

	StartingMoney int `koanf:"starting_money"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		EventQueueSize:      1024,
		WorkerCount:         2,
		DedupeSize:          10_000,
		RandomSeed:          42,
		TriggerCooldownDays: 3,
		TriggerFireChance:   1,
		XPBase:              50,
		XPPerDifficulty:     10,
		ReputationScale:     1000,
		NormalizeFocus:      true,
		StaffMinEnergy:      30,
		StaffWorkEnergyCost: 10,
		StaffRestEnergy:     20,
		TrainingDays:        3,
		ArchivePath:         "data/archive.db",
		SnapshotPath:        "data/save.tyc",
		MaxReviewLimit:      100,
		StartingMoney:       5000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Addr != "", "addr must not be empty"},
		{c.EventQueueSize > 0, "queue_size must be positive"},
		{c.WorkerCount > 0, "worker_count must be positive"},
		{c.DedupeSize >= 0, "dedupe_size must not be negative"},
		{c.TriggerCooldownDays >= 0, "trigger_cooldown_days must not be negative"},
		{c.TriggerFireChance >= 0 && c.TriggerFireChance <= 1, "trigger_fire_chance must be within [0,1]"},
		{c.XPBase >= 0 && c.XPPerDifficulty >= 0, "xp settings must not be negative"},
		{c.ReputationScale > 0, "reputation_scale must be positive"},
		{c.StaffMinEnergy >= 0 && c.StaffMinEnergy <= 100, "staff_min_energy must be within [0,100]"},
		{c.StaffWorkEnergyCost >= 0 && c.StaffRestEnergy >= 0, "staff energy settings must not be negative"},
		{c.TrainingDays > 0, "training_days must be positive"},
		{c.ArchivePath != "", "archive_path must not be empty"},
		{c.SnapshotPath != "", "snapshot_path must not be empty"},
		{c.MaxReviewLimit > 0, "max_review_limit must be positive"},
		{c.StartingMoney >= 0, "starting_money must not be negative"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, ch.msg)
		}
	}
	return nil
}
