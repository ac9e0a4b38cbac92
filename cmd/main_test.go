package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/tycoon/internal/adapters/repository"
	service "github.com/okian/tycoon/internal/app"
	"github.com/okian/tycoon/internal/config"
	"github.com/okian/tycoon/pkg/logger"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service behind the server mux", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.SnapshotPath = filepath.Join(t.TempDir(), "save.tyc")

		store, err := repository.OpenSQLite(":memory:")
		convey.So(err, convey.ShouldBeNil)
		svc := service.New(service.WithConfig(cfg), service.WithArchive(store))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		convey.Reset(func() {
			_ = svc.Stop(ctx)
			_ = store.Close()
		})

		mux := newMux(ctx, svc, cfg)

		for _, path := range []string{"/healthz", "/metrics", "/state", "/stats", "/templates", "/equipment", "/focus", "/reviews", "/openapi.yaml", "/api-docs"} {
			path := path
			convey.Convey("Then GET "+path+" answers 200", func() {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("TYCOON_WORKER_COUNT", "0")
		err := run(context.Background())
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("run() = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("serves until cancelled", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TYCOON_ADDR", "127.0.0.1:0")
		t.Setenv("TYCOON_ARCHIVE_PATH", filepath.Join(dir, "archive.db"))
		t.Setenv("TYCOON_SNAPSHOT_PATH", filepath.Join(dir, "save.tyc"))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		if err := run(ctx); err != nil {
			t.Fatalf("run() = %v", err)
		}
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("When system metrics are refreshed", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
