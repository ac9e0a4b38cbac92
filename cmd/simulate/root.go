package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/tycoon/internal/adapters/repository"
	service "github.com/okian/tycoon/internal/app"
	"github.com/okian/tycoon/internal/config"
	"github.com/okian/tycoon/internal/playthrough"
	"github.com/okian/tycoon/pkg/logger"
)

const stopTimeout = 10 * time.Second

type options struct {
	projects    int
	staff       int
	seed        int64
	minScore    float64
	maxSessions int
	top         int
	archive     string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "simulate",
		Short:         "Play a studio through a series of projects",
		Long:          "simulate hires staff, accepts templates suited to the player level and works each project to completion, one session per day. Engine tuning comes from the same config as the server (TYCOON_* env, TYCOON_CONFIG file).",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return simulate(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.projects, "projects", "n", playthrough.DefaultProjects, "projects to complete")
	f.IntVar(&opts.staff, "staff", playthrough.DefaultStaff, "staff to hire before the first project")
	f.Int64Var(&opts.seed, "seed", 42, "seed for hiring, minigame scores and minigame triggers")
	f.Float64Var(&opts.minScore, "min-score", playthrough.DefaultMinScore, "lowest minigame score the simulated player gets (0-100)")
	f.IntVar(&opts.maxSessions, "max-sessions", playthrough.DefaultMaxSessions, "work sessions allowed per project")
	f.IntVar(&opts.top, "top", playthrough.DefaultTop, "archived reviews to list")
	f.StringVar(&opts.archive, "archive", ":memory:", "SQLite review archive path")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	return cmd
}

func simulate(ctx context.Context, cmd *cobra.Command, opts options) error {
	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	level := "warn"
	if opts.verbose {
		level = "info"
	}
	_ = logger.SetLevelString(level)

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.RandomSeed = opts.seed

	store, err := repository.OpenSQLite(opts.archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = store.Close() }()
	clock := playthrough.NewClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), playthrough.DefaultUnitPace)
	svc := service.New(
		service.WithConfig(cfg),
		service.WithArchive(store),
		service.WithWorkClock(clock.Now),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			fmt.Fprintln(os.Stderr, "simulate: stop: "+err.Error())
		}
	}()

	rep, err := playthrough.Run(ctx, svc, playthrough.Config{
		Projects:    opts.projects,
		Staff:       opts.staff,
		Seed:        opts.seed,
		MinScore:    opts.minScore,
		MaxSessions: opts.maxSessions,
		Top:         opts.top,
	})
	if err != nil {
		return err
	}
	return playthrough.Print(cmd.OutOrStdout(), rep)
}
