package playthrough

import (
	"sync"
	"time"
)

// Defaults for a playthrough.
const (
	DefaultProjects    = 5
	DefaultStaff       = 2
	DefaultMinScore    = 40
	DefaultMaxSessions = 500
	DefaultTop         = 10
	DefaultArchiveWait = 5 * time.Second
	DefaultUnitPace    = 400 * time.Millisecond
)

// Config controls a simulated playthrough.
type Config struct {
	Projects    int           // Projects to complete
	Staff       int           // Staff hired before the first project
	Seed        int64         // Seed for hiring and minigame scores
	MinScore    float64       // Lowest minigame score the simulated player gets
	MaxSessions int           // Work sessions allowed per project
	Top         int           // Archived reviews fetched for the report
	ArchiveWait time.Duration // How long to wait for the archive to catch up
}

func (c Config) withDefaults() Config {
	if c.Projects <= 0 {
		c.Projects = DefaultProjects
	}
	if c.Staff < 0 {
		c.Staff = 0
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		c.MinScore = DefaultMinScore
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.Top <= 0 {
		c.Top = DefaultTop
	}
	if c.ArchiveWait <= 0 {
		c.ArchiveWait = DefaultArchiveWait
	}
	return c
}

// Clock is a simulated clock for stamping work units. Every reading moves it
// forward by a fixed pace, so stage timings depend only on how much work was
// logged.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	pace time.Duration
}

// NewClock returns a clock starting at start.
func NewClock(start time.Time, pace time.Duration) *Clock {
	if pace <= 0 {
		pace = DefaultUnitPace
	}
	return &Clock{now: start, pace: pace}
}

// Now returns the current simulated time and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.pace)
	return t
}
