package playthrough_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/tycoon/internal/adapters/repository"
	service "github.com/okian/tycoon/internal/app"
	"github.com/okian/tycoon/internal/config"
	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/playthrough"
	"github.com/okian/tycoon/pkg/logger"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func newStudio(t *testing.T) *service.Service {
	t.Helper()
	store, err := repository.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	cfg := config.New()
	cfg.SnapshotPath = t.TempDir() + "/save.tyc"
	clock := playthrough.NewClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 0)
	svc := service.New(
		service.WithConfig(cfg),
		service.WithArchive(store),
		service.WithWorkClock(clock.Now),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Stop(context.Background())
		_ = store.Close()
	})
	return svc
}

func scores(rep *playthrough.Report) []int {
	out := make([]int, len(rep.Projects))
	for i, p := range rep.Projects {
		out[i] = p.FinalScore
	}
	return out
}

func TestRun(t *testing.T) {
	Convey("Given a fresh studio", t, func() {
		ctx := context.Background()
		studio := newStudio(t)

		Convey("When three projects are played", func() {
			rep, err := playthrough.Run(ctx, studio, playthrough.Config{Projects: 3, Staff: 2, Seed: 7})
			So(err, ShouldBeNil)

			Convey("Then every project is reviewed and archived", func() {
				So(rep.Projects, ShouldHaveLength, 3)
				for _, p := range rep.Projects {
					So(p.FinalScore, ShouldBeBetweenOrEqual, 0, 100)
					So(p.Title, ShouldNotBeEmpty)
				}
				So(rep.Top, ShouldHaveLength, 3)
				So(rep.Top[0].Rank, ShouldEqual, 1)
				So(rep.Top[0].Result.FinalScore, ShouldBeGreaterThanOrEqualTo, rep.Top[2].Result.FinalScore)
			})

			Convey("Then the studio state reflects the work", func() {
				st := studio.State(ctx)
				So(st.Reviews, ShouldHaveLength, 3)
				So(st.Staff, ShouldHaveLength, 2)
				So(rep.Day, ShouldEqual, st.Day)
				So(rep.Sessions, ShouldBeGreaterThanOrEqualTo, 3)
			})

			Convey("Then the report prints", func() {
				var buf bytes.Buffer
				So(playthrough.Print(&buf, rep), ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "Playthrough (seed 7): 3 projects")
				So(buf.String(), ShouldContainSubstring, "Top reviews:")
				So(buf.String(), ShouldContainSubstring, "1st")
			})
		})
	})
}

func TestRun_Reproducible(t *testing.T) {
	Convey("Given two studios played with the same seed", t, func() {
		ctx := context.Background()
		cfg := playthrough.Config{Projects: 2, Staff: 1, Seed: 11}

		a, err := playthrough.Run(ctx, newStudio(t), cfg)
		So(err, ShouldBeNil)
		b, err := playthrough.Run(ctx, newStudio(t), cfg)
		So(err, ShouldBeNil)

		Convey("Then they score the same", func() {
			So(scores(a), ShouldResemble, scores(b))
			So(a.Day, ShouldEqual, b.Day)
			So(a.Money, ShouldEqual, b.Money)
		})
	})
}

func TestPrint(t *testing.T) {
	Convey("Given a report with large numbers", t, func() {
		rep := &playthrough.Report{
			Seed:     1,
			Projects: []model.CompletionResult{{Title: "pop Jingle", FinalScore: 88, Payout: 1234567, Day: 4}},
			Top:      []repository.Entry{{Rank: 2, Result: model.CompletionResult{Title: "pop Jingle", FinalScore: 88}}},
			Sessions: 1500,
			Money:    25000,
		}

		Convey("Then money and ranks are humanized", func() {
			var buf bytes.Buffer
			So(playthrough.Print(&buf, rep), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "$1,234,567")
			So(buf.String(), ShouldContainSubstring, "$25,000")
			So(buf.String(), ShouldContainSubstring, "1,500 work sessions")
			So(buf.String(), ShouldContainSubstring, "2nd")
		})

		Convey("Then a nil report prints nothing", func() {
			var buf bytes.Buffer
			So(playthrough.Print(&buf, nil), ShouldBeNil)
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := playthrough.NewClock(start, time.Second)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("first reading = %v, want %v", got, start)
	}
	if got := c.Now(); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("second reading = %v", got)
	}
}
