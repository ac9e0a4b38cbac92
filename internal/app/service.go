// Package service owns the studio game state and wires the domain engine to
// the archive, event queue, workers and live stream.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/tycoon/internal/adapters/http/stream"
	eventqueue "github.com/okian/tycoon/internal/adapters/mq/queue"
	workerpool "github.com/okian/tycoon/internal/adapters/mq/worker"
	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/adapters/snapshot"
	"github.com/okian/tycoon/internal/config"
	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/internal/domain/dedupe"
	"github.com/okian/tycoon/internal/domain/game"
	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/progress"
	"github.com/okian/tycoon/internal/domain/reward"
	"github.com/okian/tycoon/internal/domain/staff"
	"github.com/okian/tycoon/internal/domain/trigger"
	"github.com/okian/tycoon/internal/domain/workcalc"
	"github.com/okian/tycoon/pkg/logger"
	"github.com/okian/tycoon/pkg/metrics"
)

// Service serializes every action on the game state. Holding the lock for a
// whole action keeps at most one work computation in flight per stage.
type Service struct {
	mu    sync.Mutex
	state game.State

	cfg         *config.Config
	engine      *game.Engine
	catalog     *content.Catalog
	archive     repository.Store
	ownsArchive bool
	deduper     dedupe.Deduper
	queue       *eventqueue.InMemoryQueue
	publisher   reward.Publisher
	pool        *workerpool.Pool
	hub         *stream.Hub
	now         func() time.Time
	workClock   func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service. Components that touch the outside world are
// created by Start.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	var engineOpts []game.Option
	if s.workClock != nil {
		engineOpts = append(engineOpts, game.WithTracker(progress.New(progress.WithClock(s.workClock))))
	}
	s.engine = NewEngine(s.cfg, engineOpts...)
	s.state = game.NewState(s.cfg.StartingMoney)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.cfg.DedupeSize))
	s.hub = stream.NewHub(stream.WithLogger(s.logger.Named("stream")))
	return s
}

// NewEngine builds a game engine tuned by cfg. extra options are applied last.
func NewEngine(cfg *config.Config, extra ...game.Option) *game.Engine {
	opts := []game.Option{
		game.WithCalculator(workcalc.New(
			workcalc.WithAttributeScaling(cfg.AttributeScaling),
			workcalc.WithFocusNormalization(cfg.NormalizeFocus),
		)),
		game.WithEvaluator(trigger.New(
			trigger.WithSeed(cfg.RandomSeed),
			trigger.WithCooldownDays(cfg.TriggerCooldownDays),
			trigger.WithFireChance(cfg.TriggerFireChance),
		)),
		game.WithResolver(reward.New(
			reward.WithXPBase(cfg.XPBase),
			reward.WithXPPerDifficulty(cfg.XPPerDifficulty),
			reward.WithReputationScale(cfg.ReputationScale),
		)),
		game.WithStaffRules(staff.New(
			staff.WithMinEnergy(cfg.StaffMinEnergy),
			staff.WithWorkEnergyCost(cfg.StaffWorkEnergyCost),
			staff.WithRestEnergy(cfg.StaffRestEnergy),
			staff.WithTrainingDays(cfg.TrainingDays),
		)),
	}
	return game.NewEngine(append(opts, extra...)...)
}

// Start opens the archive and catalog and starts the archive workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting studio service...")

	if s.catalog == nil {
		c, err := content.Load(s.cfg.TemplatesPath)
		if err != nil {
			return fmt.Errorf("load templates: %w", err)
		}
		s.catalog = c
	}
	if s.archive == nil {
		store, err := repository.OpenSQLite(s.cfg.ArchivePath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		s.archive = store
		s.ownsArchive = true
	}
	s.hub.Reopen()

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.cfg.EventQueueSize))
	s.publisher = s.queue
	s.pool = workerpool.NewPool(s.cfg.WorkerCount, s.queue, s.archive, s.hub)
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "studio service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.cfg.EventQueueSize),
		logger.Int("templates", len(s.catalog.List())),
	)
	return nil
}

// Stop drains pending events into the archive and releases resources.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping studio service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.hub.Close()
	if s.ownsArchive {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close archive: %w", err))
		}
		s.archive = nil
		s.ownsArchive = false
	}
	s.queue = nil
	s.publisher = nil
	s.pool = nil
	s.started = false
	s.logger.Info(ctx, "studio service stopped")
	return errors.Join(errs...)
}

// Hub returns the live completion stream.
func (s *Service) Hub() *stream.Hub { return s.hub }

// State returns a copy of the current game state.
func (s *Service) State(_ context.Context) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply runs one action against the current state.
func (s *Service) Apply(ctx context.Context, a game.Action) (game.State, game.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, a)
}

func (s *Service) applyLocked(ctx context.Context, a game.Action) (game.State, game.Outcome, error) {
	if !s.started {
		return game.State{}, game.Outcome{}, ErrNotStarted
	}
	next, out, err := s.engine.Apply(s.state, a)
	if err != nil {
		metrics.RecordAction(actionName(a), "error")
		s.logger.Debug(ctx, "action rejected", logger.String("action", actionName(a)), logger.Error(err))
		return s.state.Clone(), game.Outcome{}, err
	}
	s.state = next
	metrics.RecordAction(out.Action, "ok")
	s.observe(ctx, out)
	return s.state.Clone(), out, nil
}

func actionName(a game.Action) string {
	if a == nil {
		return "unknown"
	}
	return a.Name()
}

// observe records metrics for an applied action and publishes completions.
func (s *Service) observe(ctx context.Context, out game.Outcome) {
	if out.Work != nil {
		metrics.RecordWorkSession()
	}
	for _, u := range out.Units {
		metrics.RecordWorkUnit(string(u.Type), string(u.Source), u.Value)
	}
	if out.StageCompleted != "" {
		metrics.RecordStageCompletion()
		s.logger.Info(ctx, "stage completed",
			logger.String("stage_id", out.StageCompleted),
			logger.Bool("advanced", out.StageAdvanced),
		)
	}
	if out.Trigger != nil {
		metrics.RecordMinigameTrigger(out.Trigger.Kind, out.Trigger.CompletionLinked)
	}
	if out.Completion == nil {
		return
	}

	res := *out.Completion
	metrics.RecordProjectCompletion(res.FinalScore, res.Payout, res.RepGain)
	s.logger.Info(ctx, "project completed",
		logger.String("project_id", res.ProjectID),
		logger.Int("final_score", res.FinalScore),
		logger.Int("payout", res.Payout),
	)
	ev := reward.NewEvent(res, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		// The review is still kept in the state history.
		s.logger.Warn(ctx, "completion event dropped",
			logger.String("event_id", ev.EventID),
			logger.Error(err),
		)
	}
}

// Templates lists the catalog, filtered by a fuzzy query when one is given.
func (s *Service) Templates(_ context.Context, query string) ([]content.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog.Search(query), nil
}

// AvailableTemplates lists the templates suited to the player's level.
func (s *Service) AvailableTemplates(_ context.Context) ([]content.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog.ForLevel(s.state.Player.Level), nil
}

// AcceptTemplate starts a project built from a catalog template.
func (s *Service) AcceptTemplate(ctx context.Context, templateID string) (game.State, game.Outcome, error) {
	if strings.TrimSpace(templateID) == "" {
		return game.State{}, game.Outcome{}, fmt.Errorf("%w: template_id", ErrMissingInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return game.State{}, game.Outcome{}, ErrNotStarted
	}
	tpl, err := s.catalog.Get(templateID)
	if err != nil {
		return s.state.Clone(), game.Outcome{}, err
	}
	return s.applyLocked(ctx, game.AcceptProject{Project: content.NewProject(tpl, s.state.Day)})
}

// Equipment lists the gear for sale.
func (s *Service) Equipment(_ context.Context) ([]model.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog.Equipment(), nil
}

// PurchaseEquipment buys a piece of catalog gear.
func (s *Service) PurchaseEquipment(ctx context.Context, equipmentID string) (game.State, game.Outcome, error) {
	if strings.TrimSpace(equipmentID) == "" {
		return game.State{}, game.Outcome{}, fmt.Errorf("%w: equipment_id", ErrMissingInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return game.State{}, game.Outcome{}, ErrNotStarted
	}
	eq, err := s.catalog.EquipmentByID(equipmentID)
	if err != nil {
		return s.state.Clone(), game.Outcome{}, err
	}
	st, out, err := s.applyLocked(ctx, game.PurchaseEquipment{Equipment: eq})
	if err == nil {
		s.logger.Info(ctx, "equipment purchased",
			logger.String("equipment_id", eq.ID),
			logger.Int("price", eq.Price),
		)
	}
	return st, out, err
}

// Work runs one work session. A repeated non-empty requestID is reported as a
// duplicate and leaves the state untouched.
func (s *Service) Work(ctx context.Context, requestID string) (game.State, game.Outcome, bool, error) {
	if s.backlogged() {
		metrics.RecordAction(game.WorkSession{}.Name(), "backpressure")
		return game.State{}, game.Outcome{}, false, ErrBackpressure
	}
	if requestID != "" && s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordDuplicateRequest()
		return s.State(ctx), game.Outcome{}, true, nil
	}
	st, out, err := s.Apply(ctx, game.WorkSession{})
	if err != nil && requestID != "" {
		s.deduper.Unrecord(ctx, requestID)
	}
	return st, out, false, err
}

// Reviews returns the best archived reviews.
func (s *Service) Reviews(ctx context.Context, limit int) ([]repository.Entry, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	return store.TopN(ctx, limit)
}

// Review returns the archived review of one project.
func (s *Service) Review(ctx context.Context, projectID string) (repository.Entry, error) {
	store, err := s.store()
	if err != nil {
		return repository.Entry{}, err
	}
	return store.Get(ctx, projectID)
}

// backlogged reports whether the completion queue has no room left.
func (s *Service) backlogged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue != nil && s.queue.Full()
}

func (s *Service) store() (repository.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.archive, nil
}

// Save writes the current state to the configured snapshot path.
func (s *Service) Save(ctx context.Context) (snapshot.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	savedAt := s.now().UTC()
	if err := snapshot.WriteFile(s.cfg.SnapshotPath, s.state, savedAt); err != nil {
		metrics.RecordSnapshot("save", false)
		metrics.RecordErrorByComponent("snapshot", "write")
		return snapshot.Header{}, err
	}
	metrics.RecordSnapshot("save", true)
	s.logger.Info(ctx, "game saved", logger.String("path", s.cfg.SnapshotPath), logger.Int("day", s.state.Day))
	return snapshot.Header{Version: snapshot.Version, Day: s.state.Day, SavedAt: savedAt}, nil
}

// Load replaces the current state with the configured snapshot. On error the
// current state is kept.
func (s *Service) Load(ctx context.Context) (snapshot.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := snapshot.ReadFile(s.cfg.SnapshotPath)
	if err != nil {
		metrics.RecordSnapshot("load", false)
		metrics.RecordErrorByComponent("snapshot", "read")
		return snapshot.Header{}, err
	}
	s.state = f.State
	metrics.RecordSnapshot("load", true)
	s.logger.Info(ctx, "game loaded", logger.String("path", s.cfg.SnapshotPath), logger.Int("day", f.Header.Day))
	return f.Header, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"started":        s.started,
		"day":            s.state.Day,
		"money":          s.state.Money,
		"reputation":     s.state.Reputation,
		"player_level":   s.state.Player.Level,
		"staff":          len(s.state.Staff),
		"active_project": s.state.ActiveProject != nil,
		"reviews_kept":   len(s.state.Reviews),
		"dedupe_size":    s.deduper.Size(),
		"stream_clients": s.hub.Clients(),
	}
	if s.started {
		stats["queue_length"] = s.queue.Len()
		stats["workers"] = s.pool.Size()
		if n, err := s.archive.Count(ctx); err == nil {
			stats["archived_reviews"] = n
			metrics.UpdateArchiveRecords(n)
		}
	}
	return stats
}
