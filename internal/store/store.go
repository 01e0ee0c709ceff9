package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chyiyaqing/ideapack/internal/generator"
	"github.com/chyiyaqing/ideapack/internal/seeds"
	"github.com/chyiyaqing/ideapack/internal/source"
)

type RunKind string

const (
	KindHarvest  RunKind = "harvest"
	KindGenerate RunKind = "generate"
)

// Run is one harvest or generate invocation. RecordCount is the size of
// the content pool for harvests and the number of kept ideas for generates.
type Run struct {
	ID          string     `json:"id"`
	Kind        RunKind    `json:"kind"`
	StartedAt   time.Time  `json:"started_at"`
	RecordCount int        `json:"record_count"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
}

type SourceResult struct {
	Source  string `json:"source"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

type SeedSnapshot struct {
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Patterns  seeds.Patterns `json:"patterns"`
}

type StoredIdea struct {
	Rank            int    `json:"rank"`
	Title           string `json:"title"`
	Score           int    `json:"score"`
	DurationSeconds int    `json:"duration_s"`
	PromptText      string `json:"prompt_text"`
}

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// One writer at a time; the HTTP server and the scheduler share the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			kind         TEXT NOT NULL,
			started_at   DATETIME NOT NULL,
			record_count INTEGER NOT NULL DEFAULT 0,
			notified_at  DATETIME
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

		CREATE TABLE IF NOT EXISTS content_records (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES runs(id),
			source      TEXT NOT NULL,
			title       TEXT NOT NULL,
			tags        TEXT NOT NULL DEFAULT '[]',
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_content_records_run ON content_records(run_id);

		CREATE TABLE IF NOT EXISTS source_results (
			run_id  TEXT NOT NULL REFERENCES runs(id),
			source  TEXT NOT NULL,
			status  TEXT NOT NULL,
			records INTEGER NOT NULL DEFAULT 0,
			error   TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, source)
		);

		CREATE TABLE IF NOT EXISTS seed_snapshots (
			run_id     TEXT PRIMARY KEY REFERENCES runs(id),
			patterns   TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS ideas (
			run_id      TEXT NOT NULL REFERENCES runs(id),
			rank        INTEGER NOT NULL,
			title       TEXT NOT NULL,
			score       INTEGER NOT NULL DEFAULT 0,
			duration_s  INTEGER NOT NULL DEFAULT 0,
			prompt_text TEXT NOT NULL,
			PRIMARY KEY (run_id, rank)
		);
	`)
	return err
}

// SaveHarvest records a harvest run: the content pool, the per-source
// outcome and the extracted patterns. It returns the new run id.
func (s *Store) SaveHarvest(startedAt time.Time, pool []source.ContentRecord, results []source.Result, patterns seeds.Patterns) (string, error) {
	patternsJSON, err := json.Marshal(patterns)
	if err != nil {
		return "", fmt.Errorf("marshal patterns: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	ts := startedAt.UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`INSERT INTO runs (id, kind, started_at, record_count) VALUES (?, ?, ?, ?)`,
		id, KindHarvest, ts, len(pool)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO content_records (run_id, source, title, tags, description)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range pool {
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return "", fmt.Errorf("marshal tags: %w", err)
		}
		if _, err := stmt.Exec(id, r.Source, r.Title, string(tags), r.Description); err != nil {
			return "", fmt.Errorf("save record %q: %w", r.Title, err)
		}
	}

	for _, res := range results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		if _, err := tx.Exec(`
			INSERT INTO source_results (run_id, source, status, records, error)
			VALUES (?, ?, ?, ?, ?)
		`, id, res.Source, string(res.Status), len(res.Records), errText); err != nil {
			return "", fmt.Errorf("save result %s: %w", res.Source, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO seed_snapshots (run_id, patterns, created_at) VALUES (?, ?, ?)`,
		id, string(patternsJSON), ts); err != nil {
		return "", fmt.Errorf("save seed snapshot: %w", err)
	}

	return id, tx.Commit()
}

// SaveIdeas records a generate run with its kept ideas in rank order.
func (s *Store) SaveIdeas(startedAt time.Time, ideas []generator.Idea) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.Exec(`INSERT INTO runs (id, kind, started_at, record_count) VALUES (?, ?, ?, ?)`,
		id, KindGenerate, startedAt.UTC().Format(time.RFC3339), len(ideas)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ideas (run_id, rank, title, score, duration_s, prompt_text)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, it := range ideas {
		if _, err := stmt.Exec(id, i+1, it.Title, it.Score, it.DurationSeconds, it.PromptText); err != nil {
			return "", fmt.Errorf("save idea %q: %w", it.Title, err)
		}
	}
	return id, tx.Commit()
}

// LatestSeeds returns the most recent seed snapshot, or nil if none exists.
func (s *Store) LatestSeeds() (*SeedSnapshot, error) {
	row := s.db.QueryRow(`
		SELECT run_id, patterns, created_at
		FROM seed_snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`)

	var snap SeedSnapshot
	var raw string
	err := row.Scan(&snap.RunID, &raw, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &snap.Patterns); err != nil {
		return nil, fmt.Errorf("decode patterns for run %s: %w", snap.RunID, err)
	}
	return &snap, nil
}

// RecentRuns returns runs started within the given window, newest first.
// Supported windows: "24h", "3days", "7days", "all".
func (s *Store) RecentRuns(window string, limit int) ([]Run, error) {
	cutoff, err := windowCutoff(window)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, kind, started_at, record_count, notified_at
		FROM runs
		WHERE started_at >= ?
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var notified sql.NullTime
		if err := rows.Scan(&r.ID, &r.Kind, &r.StartedAt, &r.RecordCount, &notified); err != nil {
			return nil, err
		}
		if notified.Valid {
			t := notified.Time
			r.NotifiedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SourceResults returns the per-source outcome of a harvest run.
func (s *Store) SourceResults(runID string) ([]SourceResult, error) {
	rows, err := s.db.Query(`
		SELECT source, status, records, error
		FROM source_results
		WHERE run_id = ?
		ORDER BY rowid ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []SourceResult{}
	for rows.Next() {
		var r SourceResult
		if err := rows.Scan(&r.Source, &r.Status, &r.Records, &r.Error); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RecordsForRun returns the content pool archived by a harvest run.
func (s *Store) RecordsForRun(runID string) ([]source.ContentRecord, error) {
	rows, err := s.db.Query(`
		SELECT source, title, tags, description
		FROM content_records
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []source.ContentRecord{}
	for rows.Next() {
		var r source.ContentRecord
		var tags string
		if err := rows.Scan(&r.Source, &r.Title, &tags, &r.Description); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// IdeasForRun returns the ideas of a generate run in rank order.
func (s *Store) IdeasForRun(runID string) ([]StoredIdea, error) {
	rows, err := s.db.Query(`
		SELECT rank, title, score, duration_s, prompt_text
		FROM ideas
		WHERE run_id = ?
		ORDER BY rank ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ideas := []StoredIdea{}
	for rows.Next() {
		var it StoredIdea
		if err := rows.Scan(&it.Rank, &it.Title, &it.Score, &it.DurationSeconds, &it.PromptText); err != nil {
			return nil, err
		}
		ideas = append(ideas, it)
	}
	return ideas, rows.Err()
}

// MarkNotified sets notified_at on a run once its pack has been sent.
func (s *Store) MarkNotified(runID string) error {
	_, err := s.db.Exec(`UPDATE runs SET notified_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), runID)
	return err
}

// windowCutoff returns the UTC cutoff time formatted for SQLite comparison.
func windowCutoff(window string) (string, error) {
	var d time.Duration
	switch window {
	case "24h":
		d = 24 * time.Hour
	case "3days":
		d = 72 * time.Hour
	case "7days":
		d = 168 * time.Hour
	case "all":
		return time.Time{}.Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("unsupported time window: %s (use 24h, 3days, 7days or all)", window)
	}
	return time.Now().UTC().Add(-d).Format(time.RFC3339), nil
}
