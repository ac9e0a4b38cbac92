// Package playthrough drives a studio through a series of projects the way a
// steady player would, for smoke runs and balance checks.
package playthrough

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/staff"
	"github.com/okian/tycoon/pkg/logger"
)

const archivePollInterval = 20 * time.Millisecond

// Studio is the part of the studio service a playthrough needs.
type Studio interface {
	State(ctx context.Context) game.State
	Apply(ctx context.Context, a game.Action) (game.State, game.Outcome, error)
	AcceptTemplate(ctx context.Context, templateID string) (game.State, game.Outcome, error)
	Work(ctx context.Context, requestID string) (game.State, game.Outcome, bool, error)
	AvailableTemplates(ctx context.Context) ([]content.Template, error)
	Reviews(ctx context.Context, limit int) ([]repository.Entry, error)
}

// Report summarizes a finished playthrough.
type Report struct {
	Seed       int64
	Projects   []model.CompletionResult
	Top        []repository.Entry
	Sessions   int
	Minigames  int
	Day        int
	Money      int
	Reputation int
	Level      int
	Duration   time.Duration
}

var (
	staffNames  = []string{"Avery", "Jules", "Remy", "Sasha", "Noor", "Kai", "Marlo", "Tess"}
	staffRoles  = []string{"Engineer", "Producer", "Session Player", "Mixer"}
	staffSkills = []string{"recording", "composition", "soundDesign", "mixing", "mastering"}
)

type runner struct {
	studio   Studio
	cfg      Config
	rng      *rand.Rand
	log      logger.Logger
	sessions int
	games    int
}

// Run hires staff and completes cfg.Projects projects, then collects the
// archived reviews.
func Run(ctx context.Context, studio Studio, cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	r := &runner{
		studio: studio,
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)>>1|1)),
		log:    logger.Get().Named("playthrough"),
	}
	start := time.Now()

	r.log.Info(ctx, "starting playthrough",
		logger.Int("projects", cfg.Projects),
		logger.Int("staff", cfg.Staff),
		logger.Any("seed", cfg.Seed),
	)

	if err := r.hire(ctx); err != nil {
		return nil, fmt.Errorf("hire staff: %w", err)
	}

	rep := &Report{Seed: cfg.Seed}
	for i := 0; i < cfg.Projects; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.project(ctx)
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i+1, err)
		}
		r.log.Info(ctx, "project finished",
			logger.String("title", res.Title),
			logger.Int("final_score", res.FinalScore),
			logger.Int("day", res.Day),
		)
		rep.Projects = append(rep.Projects, res)
	}

	top, err := r.waitForArchive(ctx, min(cfg.Projects, cfg.Top))
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	st := studio.State(ctx)
	rep.Top = top
	rep.Sessions = r.sessions
	rep.Minigames = r.games
	rep.Day = st.Day
	rep.Money = st.Money
	rep.Reputation = st.Reputation
	rep.Level = st.Player.Level
	rep.Duration = time.Since(start)
	return rep, nil
}

func (r *runner) hire(ctx context.Context) error {
	for i := 0; i < r.cfg.Staff; i++ {
		m := model.StaffMember{
			ID:   fmt.Sprintf("staff-%d", i+1),
			Name: staffNames[r.rng.IntN(len(staffNames))],
			Role: staffRoles[r.rng.IntN(len(staffRoles))],
			PrimaryStats: model.PrimaryStats{
				Creativity: 10 + r.rng.IntN(20),
				Technical:  10 + r.rng.IntN(20),
				Speed:      5 + r.rng.IntN(10),
			},
			Mood:   50 + r.rng.IntN(50),
			Salary: 50 + 10*r.rng.IntN(10),
			Skills: make(map[string]int, len(staffSkills)),
		}
		for _, skill := range staffSkills {
			m.Skills[skill] = 1 + r.rng.IntN(5)
		}
		_, _, err := r.studio.Apply(ctx, game.HireStaff{Member: m})
		if errors.Is(err, game.ErrInsufficientFunds) {
			r.log.Warn(ctx, "stopped hiring; studio cannot afford more staff", logger.Int("hired", i))
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// project accepts a template and works it to completion, one session per day.
func (r *runner) project(ctx context.Context) (model.CompletionResult, error) {
	templates, err := r.studio.AvailableTemplates(ctx)
	if err != nil {
		return model.CompletionResult{}, err
	}
	if len(templates) == 0 {
		return model.CompletionResult{}, ErrNoTemplates
	}
	tpl := templates[r.rng.IntN(len(templates))]
	st, _, err := r.studio.AcceptTemplate(ctx, tpl.ID)
	if err != nil {
		return model.CompletionResult{}, err
	}

	for i := 0; i < r.cfg.MaxSessions; i++ {
		if err := r.crew(ctx, st); err != nil {
			return model.CompletionResult{}, err
		}

		r.sessions++
		var out game.Outcome
		st, out, _, err = r.studio.Work(ctx, fmt.Sprintf("session-%d", r.sessions))
		if err != nil {
			return model.CompletionResult{}, err
		}
		if out.Completion != nil {
			return *out.Completion, nil
		}

		for st.PendingMinigame != nil {
			pending := st.PendingMinigame
			r.games++
			score := r.cfg.MinScore + r.rng.Float64()*(100-r.cfg.MinScore)
			st, out, err = r.studio.Apply(ctx, game.CompleteMinigame{TriggerID: pending.ID, Score: score})
			if err != nil {
				return model.CompletionResult{}, err
			}
			if out.Completion != nil {
				return *out.Completion, nil
			}
		}

		if st, _, err = r.studio.Apply(ctx, game.AdvanceDay{}); err != nil {
			return model.CompletionResult{}, err
		}
	}
	return model.CompletionResult{}, fmt.Errorf("%w: %s after %d sessions", ErrStalled, tpl.ID, r.cfg.MaxSessions)
}

// crew puts idle staff to work and sends the tired ones to rest.
func (r *runner) crew(ctx context.Context, st game.State) error {
	for _, m := range st.Staff {
		if m.Status != model.StaffIdle {
			continue
		}
		_, _, err := r.studio.Apply(ctx, game.AssignStaff{StaffID: m.ID})
		if errors.Is(err, staff.ErrLowEnergy) {
			_, _, err = r.studio.Apply(ctx, game.RestStaff{StaffID: m.ID})
		}
		if err != nil {
			return fmt.Errorf("staff %s: %w", m.ID, err)
		}
	}
	return nil
}

// waitForArchive polls until want reviews are archived or the wait runs out.
func (r *runner) waitForArchive(ctx context.Context, want int) ([]repository.Entry, error) {
	deadline := time.Now().Add(r.cfg.ArchiveWait)
	for {
		top, err := r.studio.Reviews(ctx, r.cfg.Top)
		if err != nil {
			return nil, err
		}
		if len(top) >= want || time.Now().After(deadline) {
			if len(top) < want {
				r.log.Warn(ctx, "archive still catching up", logger.Int("archived", len(top)), logger.Int("expected", want))
			}
			return top, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(archivePollInterval):
		}
	}
}
