package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hetulpatel/PitchDeck/internal/models"
)

const (
	defaultPath      = "data/pitch.db"
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const runsSchemaSQL = `
CREATE TABLE IF NOT EXISTS pitch_runs (
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	industry TEXT,
	funding_stage TEXT,
	file_count INTEGER NOT NULL DEFAULT 0,
	context_length INTEGER NOT NULL DEFAULT 0,
	context_hash TEXT,
	generation_method TEXT NOT NULL,
	error TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS pitch_runs_created_idx ON pitch_runs(created_at);
`

// CreateTables ensures the run log table exists.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, runsSchemaSQL)
	return err
}

// DropTables removes the run log table.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS pitch_runs;`)
	return err
}

const insertRunSQL = `
INSERT INTO pitch_runs (
	id, company_name, industry, funding_stage, file_count, context_length,
	context_hash, generation_method, error, duration_ms, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertRun records one generation.
func (s *Store) InsertRun(ctx context.Context, run models.Run) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	_, err := s.db.ExecContext(
		ctx,
		insertRunSQL,
		run.ID,
		run.CompanyName,
		run.Industry,
		run.FundingStage,
		run.FileCount,
		run.ContextLength,
		run.ContextHash,
		run.Method,
		run.Error,
		run.Duration.Milliseconds(),
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit is clamped to
// [1, MaxListLimit]; zero or negative means DefaultListLimit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialized")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, company_name, industry, funding_stage, file_count, context_length,
	context_hash, generation_method, error, duration_ms, created_at
FROM pitch_runs
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var (
			r                            models.Run
			industry, stage, hash, errTx sql.NullString
			durationMS                   int64
			createdAt                    string
		)
		if err := rows.Scan(&r.ID, &r.CompanyName, &industry, &stage, &r.FileCount, &r.ContextLength,
			&hash, &r.Method, &errTx, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Industry = industry.String
		r.FundingStage = stage.String
		r.ContextHash = hash.String
		r.Error = errTx.String
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = ts
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
