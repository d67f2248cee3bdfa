// internal/db/store.go
package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned for unknown run ids
var ErrRunNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

// Run is one discussion session. Transcript text is never stored.
type Run struct {
	ID        string
	Topic     string
	Roster    string // comma separated participant names
	StartedAt time.Time
	EndedAt   time.Time // zero while running
	EndReason string
	Lines     int
}

// Running reports whether the run has not been finished yet
func (r Run) Running() bool {
	return r.EndedAt.IsZero()
}

// Duration is the run length, or time since start while running
func (r Run) Duration() time.Duration {
	if r.Running() {
		return time.Since(r.StartedAt)
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Open opens (and creates) the run log at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// serialize writers from the discussion loop and the UI
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		topic TEXT,
		roster TEXT,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		end_reason TEXT,
		line_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun records a new run
func (s *Store) StartRun(id, topic, roster string, startedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, topic, roster, started_at) VALUES (?, ?, ?, ?)`,
		id, topic, roster, startedAt.UTC(),
	)
	return err
}

// FinishRun completes a run with its end reason and line count
func (s *Store) FinishRun(id, reason string, lines int, endedAt time.Time) error {
	result, err := s.db.Exec(
		`UPDATE runs SET ended_at = ?, end_reason = ?, line_count = ? WHERE id = ?`,
		endedAt.UTC(), reason, lines, id,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, topic, roster, started_at, ended_at, end_reason, line_count
		 FROM runs WHERE id = ?`, id,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first; limit <= 0 means all
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, topic, roster, started_at, ended_at, end_reason, line_count
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// CloseDangling finishes runs left open by a crashed process
func (s *Store) CloseDangling(reason string, at time.Time) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE runs SET ended_at = ?, end_reason = ? WHERE ended_at IS NULL`,
		at.UTC(), reason,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var topic, roster, reason sql.NullString
	var ended sql.NullTime
	if err := row.Scan(&r.ID, &topic, &roster, &r.StartedAt, &ended, &reason, &r.Lines); err != nil {
		return nil, err
	}
	r.Topic = topic.String
	r.Roster = roster.String
	r.EndReason = reason.String
	if ended.Valid {
		r.EndedAt = ended.Time
	}
	return &r, nil
}
