// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps the results of past batch runs in a SQLite
// database so they can be listed and exported again without re-reading
// the source documents.
package archive

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
	_ "github.com/mattn/go-sqlite3"

	"github.com/AmitayManor/pdf-extractor/internal/batch"
	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

const (
	dbFile = "runs.db"

	// timeFormat has a fixed width so stored times sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

var (
	// ErrRunNotFound is returned when no run matches an ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRun is returned when an ID prefix matches several runs.
	ErrAmbiguousRun = errors.New("run ID prefix is ambiguous")
)

// RunInfo describes an archived run.
type RunInfo struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Selection []string  `json:"selection" yaml:"selection"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
}

// Run is an archived run with its results in input order.
type Run struct {
	RunInfo
	Results []*types.Result `json:"results" yaml:"results"`
}

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive at dir/runs.db.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			selection TEXT NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			file_path TEXT NOT NULL,
			file_name TEXT NOT NULL,
			data TEXT,
			error TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores results under a new run ID. Pending results are not
// stored.
func (s *Store) SaveRun(ctx context.Context, sel fields.Selection, results []*types.Result) (RunInfo, error) {
	summary := batch.Summarize(results)
	info := RunInfo{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Selection: sel.IDs(),
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	}
	selJSON, err := json.Marshal(info.Selection)
	if err != nil {
		return RunInfo{}, fmt.Errorf("marshaling selection: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunInfo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, selection, succeeded, failed) VALUES (?, ?, ?, ?, ?)`,
		info.ID, info.CreatedAt.Format(timeFormat), string(selJSON), info.Succeeded, info.Failed,
	)
	if err != nil {
		return RunInfo{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, seq, file_path, file_name, data, error) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return RunInfo{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, r := range results {
		if r.Status() == types.ResultPending {
			continue
		}
		dataJSON, err := json.Marshal(r.Data)
		if err != nil {
			return RunInfo{}, fmt.Errorf("marshaling result %s: %w", r.FileName, err)
		}
		if _, err := stmt.ExecContext(ctx, info.ID, seq, r.Path, r.FileName, string(dataJSON), r.Error); err != nil {
			return RunInfo{}, fmt.Errorf("inserting result %s: %w", r.FileName, err)
		}
		seq++
	}

	if err := tx.Commit(); err != nil {
		return RunInfo{}, fmt.Errorf("committing run: %w", err)
	}
	return info, nil
}

// ListRuns returns archived runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT id, created_at, selection, succeeded, failed FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// LoadRun returns the run whose ID equals id or, failing that, starts
// with it.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	info, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path, file_name, data, error FROM results WHERE run_id = ? ORDER BY seq`, info.ID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	run := &Run{RunInfo: info}
	for rows.Next() {
		var (
			path, name       string
			dataJSON, errMsg sql.NullString
		)
		if err := rows.Scan(&path, &name, &dataJSON, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		var data types.Record
		if dataJSON.Valid && dataJSON.String != "" {
			if err := json.Unmarshal([]byte(dataJSON.String), &data); err != nil {
				return nil, fmt.Errorf("decoding result %s: %w", name, err)
			}
		}
		run.Results = append(run.Results, types.RestoreResult(path, name, data, errMsg.String))
	}
	return run, rows.Err()
}

// DeleteRun removes a run and its results.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	info, err := s.findRun(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, info.ID); err != nil {
		return fmt.Errorf("deleting run %s: %w", info.ID, err)
	}
	return nil
}

func (s *Store) findRun(ctx context.Context, id string) (RunInfo, error) {
	if id == "" {
		return RunInfo{}, fmt.Errorf("empty run ID: %w", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, selection, succeeded, failed FROM runs
		 WHERE id = ? OR substr(id, 1, length(?)) = ?
		 ORDER BY id = ? DESC LIMIT 2`, id, id, id, id)
	if err != nil {
		return RunInfo{}, fmt.Errorf("querying run %s: %w", id, err)
	}
	defer rows.Close()

	var found []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return RunInfo{}, err
		}
		found = append(found, info)
	}
	if err := rows.Err(); err != nil {
		return RunInfo{}, err
	}

	switch {
	case len(found) == 0:
		return RunInfo{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return RunInfo{}, fmt.Errorf("%s: %w", id, ErrAmbiguousRun)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunInfo(sc scanner) (RunInfo, error) {
	var (
		info               RunInfo
		createdAt, selJSON string
	)
	if err := sc.Scan(&info.ID, &createdAt, &selJSON, &info.Succeeded, &info.Failed); err != nil {
		return RunInfo{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parsing run time %q: %w", createdAt, err)
	}
	info.CreatedAt = t
	if err := json.Unmarshal([]byte(selJSON), &info.Selection); err != nil {
		return RunInfo{}, fmt.Errorf("decoding run selection: %w", err)
	}
	return info, nil
}
