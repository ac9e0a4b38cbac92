package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/pkg/metrics"
)

const defaultMaxLimit = 100

// SQLiteStore is a Store backed by an embedded SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	now      func() time.Time
	maxLimit int
	closed   atomic.Bool
}

// OpenSQLite opens (creating if needed) the archive database at path.
// The special path ":memory:" opens a private in-memory database.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// Single connection keeps writes serialized and :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, now: time.Now, maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if n, err := s.Count(context.Background()); err == nil {
		metrics.UpdateArchiveRecords(n)
	}
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL UNIQUE,
			project_id TEXT NOT NULL,
			title TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			quality_score INTEGER NOT NULL,
			efficiency_score INTEGER NOT NULL,
			final_score INTEGER NOT NULL,
			payout INTEGER NOT NULL,
			rep_gain INTEGER NOT NULL,
			xp_gain INTEGER NOT NULL,
			day INTEGER NOT NULL,
			event_ts INTEGER NOT NULL,
			archived_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS reviews_project ON reviews(project_id);`,
		`CREATE INDEX IF NOT EXISTS reviews_score ON reviews(final_score DESC, day ASC, seq ASC);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Archive implements Store.
func (s *SQLiteStore) Archive(ctx context.Context, ev model.ProjectCompletedEvent) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	start := time.Now()
	defer func() {
		metrics.RecordArchiveLatency("archive", float64(time.Since(start).Nanoseconds())/1e6)
	}()

	r := ev.Result
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO reviews(
			event_id, project_id, title, genre, quality_score, efficiency_score,
			final_score, payout, rep_gain, xp_gain, day, event_ts, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.EventID, r.ProjectID, r.Title, r.Genre, r.QualityScore, r.EfficiencyScore,
		r.FinalScore, r.Payout, r.RepGain, r.XPGain, r.Day, ev.TS.UnixMilli(), s.now().UnixMilli(),
	)
	if err != nil {
		metrics.RecordErrorByComponent("archive", "insert")
		return false, fmt.Errorf("archive %s: %w", ev.EventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("archive %s: %w", ev.EventID, err)
	}
	if n == 0 {
		return false, nil
	}
	if count, err := s.Count(ctx); err == nil {
		metrics.UpdateArchiveRecords(count)
	}
	return true, nil
}

const selectColumns = `event_id, project_id, title, genre, quality_score, efficiency_score,
	final_score, payout, rep_gain, xp_gain, day, archived_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	r := &e.Result
	err := row.Scan(&e.EventID, &r.ProjectID, &r.Title, &r.Genre, &r.QualityScore, &r.EfficiencyScore,
		&r.FinalScore, &r.Payout, &r.RepGain, &r.XPGain, &r.Day, &e.ArchivedAt)
	return e, err
}

// Get implements Store. When a project was archived under several events the
// earliest one wins.
func (s *SQLiteStore) Get(ctx context.Context, projectID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordArchiveLatency("get", float64(time.Since(start).Nanoseconds())/1e6)
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM reviews WHERE project_id = ? ORDER BY seq ASC LIMIT 1`, projectID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("archive", "not_found")
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", projectID, err)
	}

	// 1 + number of rows strictly ahead in the ranking order.
	err = s.db.QueryRowContext(ctx, `SELECT 1 + COUNT(*) FROM reviews o, reviews t
		WHERE t.event_id = ? AND (o.final_score > t.final_score
			OR (o.final_score = t.final_score AND o.day < t.day)
			OR (o.final_score = t.final_score AND o.day = t.day AND o.seq < t.seq))`,
		e.EventID).Scan(&e.Rank)
	if err != nil {
		return Entry{}, fmt.Errorf("rank %s: %w", projectID, err)
	}
	return e, nil
}

// TopN implements Store.
func (s *SQLiteStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	n = min(n, s.maxLimit)

	start := time.Now()
	defer func() {
		metrics.RecordArchiveLatency("top_n", float64(time.Since(start).Nanoseconds())/1e6)
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM reviews ORDER BY final_score DESC, day ASC, seq ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("top %d: %w", n, err)
	}
	defer rows.Close()

	out := make([]Entry, 0, n)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// Close releases the database. It is safe to call more than once.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
