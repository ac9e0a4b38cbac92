package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/tycoon/internal/adapters/repository"
	"github.com/okian/tycoon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(id, projectID string, score, day int) model.ProjectCompletedEvent {
	return model.ProjectCompletedEvent{
		EventID: id,
		Result: model.CompletionResult{
			ProjectID:  projectID,
			Title:      "Project " + projectID,
			Genre:      "rock",
			FinalScore: score,
			Payout:     score * 10,
			Day:        day,
		},
		TS: time.Unix(1700000000, 0),
	}
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given an archive in a temporary directory", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "archive.db")
		store, err := repository.OpenSQLite(path, repository.WithClock(func() time.Time { return time.UnixMilli(42) }))
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		Convey("When it is empty", func() {
			n, err := store.Count(ctx)

			Convey("Then nothing is stored", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				_, err = store.Get(ctx, "missing")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the same event is archived twice", func() {
			first, err1 := store.Archive(ctx, event("e1", "p1", 80, 3))
			second, err2 := store.Archive(ctx, event("e1", "p1", 80, 3))
			n, _ := store.Count(ctx)

			Convey("Then only the first write lands", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When several reviews are archived", func() {
			for _, ev := range []model.ProjectCompletedEvent{
				event("e1", "p1", 70, 2),
				event("e2", "p2", 90, 5),
				event("e3", "p3", 70, 1),
				event("e4", "p4", 40, 9),
			} {
				_, err := store.Archive(ctx, ev)
				So(err, ShouldBeNil)
			}

			Convey("Then TopN orders by score then day", func() {
				top, err := store.TopN(ctx, 3)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].Result.ProjectID, ShouldEqual, "p2")
				So(top[1].Result.ProjectID, ShouldEqual, "p3")
				So(top[2].Result.ProjectID, ShouldEqual, "p1")
				So(top[2].Rank, ShouldEqual, 3)
				So(top[0].ArchivedAt, ShouldEqual, 42)
			})

			Convey("Then Get reports the rank and the stored fields", func() {
				e, err := store.Get(ctx, "p1")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 3)
				So(e.EventID, ShouldEqual, "e1")
				So(e.Result.Payout, ShouldEqual, 700)
				So(e.Result.Genre, ShouldEqual, "rock")

				last, err := store.Get(ctx, "p4")
				So(err, ShouldBeNil)
				So(last.Rank, ShouldEqual, 4)
			})

			Convey("Then a limit larger than the archive returns everything", func() {
				top, err := store.TopN(ctx, 50)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 4)
			})

			Convey("Then a non-positive limit is rejected", func() {
				_, err := store.TopN(ctx, 0)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("Then reopening the file keeps the rows", func() {
				So(store.Close(), ShouldBeNil)
				reopened, err := repository.OpenSQLite(path)
				So(err, ShouldBeNil)
				defer reopened.Close()
				n, err := reopened.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 4)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
			_, err := store.Archive(ctx, event("e9", "p9", 10, 1))

			Convey("Then writes fail with ErrClosed", func() {
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.OpenSQLite("")
		So(errors.Is(err, repository.ErrEmptyPath), ShouldBeTrue)
	})
}

func TestSQLiteStore_MaxLimit(t *testing.T) {
	ctx := context.Background()
	store, err := repository.OpenSQLite(":memory:", repository.WithMaxLimit(2))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	for i, id := range []string{"a", "b", "c"} {
		if _, err := store.Archive(ctx, event(id, id, 50+i, 1)); err != nil {
			t.Fatalf("archive %s: %v", id, err)
		}
	}
	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].Result.ProjectID != "c" {
		t.Errorf("expected c first, got %s", top[0].Result.ProjectID)
	}
}
