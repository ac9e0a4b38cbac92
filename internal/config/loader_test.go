package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/tycoon/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it has valid defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.TriggerCooldownDays, convey.ShouldEqual, 3)
			convey.So(cfg.TriggerFireChance, convey.ShouldEqual, 1.0)
			convey.So(cfg.NormalizeFocus, convey.ShouldBeTrue)
			convey.So(cfg.AttributeScaling, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a setting is out of range", func() {
			cfg.TriggerFireChance = 1.5

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log level is unknown", func() {
			cfg.LogLevel = "chatty"

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9080" || cfg.MaxReviewLimit != 100 || cfg.StartingMoney != 5000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("TYCOON_ADDR", ":8080")
	t.Setenv("TYCOON_QUEUE_SIZE", "64")
	t.Setenv("TYCOON_TRIGGER_FIRE_CHANCE", "0.25")
	t.Setenv("TYCOON_ATTRIBUTE_SCALING", "true")
	t.Setenv("TYCOON_RANDOM_SEED", "7")

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.EventQueueSize != 64 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.TriggerFireChance != 0.25 || !cfg.AttributeScaling || cfg.RandomSeed != 7 {
		t.Errorf("typed env values not applied: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, "tycoon.yaml", `
addr: ":9090"
worker_count: 4
xp_base: 80
archive_path: /tmp/reviews.db
`)
	t.Setenv("TYCOON_CONFIG", path)
	t.Setenv("TYCOON_WORKER_COUNT", "6")

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.XPBase != 80 || cfg.ArchivePath != "/tmp/reviews.db" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.WorkerCount != 6 {
		t.Errorf("env should win over file, got worker_count=%d", cfg.WorkerCount)
	}
	if cfg.DedupeSize != 10_000 {
		t.Errorf("defaults should survive, got dedupe_size=%d", cfg.DedupeSize)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := writeFile(t, "test.env", "TYCOON_STARTING_MONEY=1234\nTYCOON_ADDR=:7000\n")
	t.Setenv("TYCOON_ENV_FILE", path)
	t.Setenv("TYCOON_ADDR", ":7777")
	t.Cleanup(func() { _ = os.Unsetenv("TYCOON_STARTING_MONEY") })

	cfg, err := config.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StartingMoney != 1234 {
		t.Errorf("dotenv value not applied, got %d", cfg.StartingMoney)
	}
	if cfg.Addr != ":7777" {
		t.Errorf("process env should win over dotenv, got %s", cfg.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("TYCOON_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := config.Load(context.Background()); !errors.Is(err, config.ErrLoadConfig) {
			t.Errorf("expected ErrLoadConfig, got %v", err)
		}
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		t.Setenv("TYCOON_ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))
		if _, err := config.Load(context.Background()); !errors.Is(err, config.ErrLoadConfig) {
			t.Errorf("expected ErrLoadConfig, got %v", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("TYCOON_WORKER_COUNT", "0")
		if _, err := config.Load(context.Background()); !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
