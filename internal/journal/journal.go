// Package journal records migration runs and per-item outcomes in SQLite so
// operators can see what was created and retry failures.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned for unknown run IDs.
var ErrRunNotFound = errors.New("run not found")

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunInfo describes a run when it starts.
type RunInfo struct {
	SourceType string
	TargetType string
	Language   string
	Total      int
	DryRun     bool
}

// Run is one recorded migration run.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	SourceType string     `json:"source_type"`
	TargetType string     `json:"target_type"`
	Language   string     `json:"language"`
	Total      int        `json:"total"`
	Successful int        `json:"successful"`
	Failed     int        `json:"failed"`
	DryRun     bool       `json:"dry_run"`
}

// RunItem is the outcome of one item in a run.
type RunItem struct {
	RunID      string    `json:"run_id"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	NewItemID  string    `json:"new_item_id,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Journal is a SQLite-backed run log. It is safe for concurrent use.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal database at path and applies
// schema migrations.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal %s: %w", path, err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun records a new run and returns its generated ID.
func (j *Journal) StartRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs(id, started_at, source_type, target_type, language, total, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, j.now().UTC().Format(timeLayout), info.SourceType, info.TargetType, info.Language, info.Total,
		boolToInt(info.DryRun))
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}

	return id, nil
}

// RecordItem appends an item outcome to a run.
func (j *Journal) RecordItem(ctx context.Context, runID string, item RunItem) error {
	warnings := item.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	encoded, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO run_items(run_id, seq, item_id, item_name, new_item_id, status, error, warnings, recorded_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM run_items WHERE run_id = ?), ?, ?, ?, ?, ?, ?, ?)`,
		runID, runID, item.ItemID, item.ItemName, nullString(item.NewItemID), item.Status,
		nullString(item.Error), string(encoded), j.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to record item %s: %w", item.ItemID, err)
	}

	return nil
}

// FinishRun stores the final counters of a run.
func (j *Journal) FinishRun(ctx context.Context, runID string, successful, failed int) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, successful = ?, failed = ? WHERE id = ?`,
		j.now().UTC().Format(timeLayout), successful, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, started_at, finished_at, source_type, target_type, language, total, successful, failed, dry_run
		FROM runs ORDER BY started_at DESC, rowid DESC`

	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRun returns one run.
func (j *Journal) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, source_type, target_type, language, total, successful, failed, dry_run
		FROM runs WHERE id = ?`, runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return r, err
}

// RunItems returns the item outcomes of a run in recording order.
func (j *Journal) RunItems(ctx context.Context, runID string) ([]RunItem, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_id, item_id, item_name, new_item_id, status, error, warnings, recorded_at
		FROM run_items WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of run %s: %w", runID, err)
	}
	defer rows.Close()

	var items []RunItem

	for rows.Next() {
		var (
			it                 RunItem
			newItemID, errText sql.NullString
			warnings, recorded string
		)

		if err := rows.Scan(&it.RunID, &it.ItemID, &it.ItemName, &newItemID, &it.Status,
			&errText, &warnings, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}

		it.NewItemID = newItemID.String
		it.Error = errText.String

		if err := json.Unmarshal([]byte(warnings), &it.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings of item %s: %w", it.ItemID, err)
		}

		if it.RecordedAt, err = time.Parse(timeLayout, recorded); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at of item %s: %w", it.ItemID, err)
		}

		items = append(items, it)
	}

	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
		dryRun   int
	)

	err := s.Scan(&r.ID, &started, &finished, &r.SourceType, &r.TargetType, &r.Language,
		&r.Total, &r.Successful, &r.Failed, &dryRun)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}

		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("failed to parse started_at of run %s: %w", r.ID, err)
	}

	if finished.Valid {
		t, err := time.Parse(timeLayout, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("failed to parse finished_at of run %s: %w", r.ID, err)
		}

		r.FinishedAt = &t
	}

	r.DryRun = dryRun != 0

	return r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
