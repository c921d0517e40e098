// Package store persists a run's per-file outcomes to a single-table
// SQLite ledger: one row per (run, file) recording whether the write
// succeeded and how many replacements it made.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/praetorian-inc/rewrite/pkg/types"
	_ "modernc.org/sqlite"
)

// Recorder persists ProcessingResults. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(runID string, result types.ProcessingResult) error
	Close() error
}

// SQLiteStore is a Recorder backed by a WAL-mode SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if necessary) the run ledger at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enabling WAL mode: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Record inserts or replaces the row for (runID, result.FilePath).
func (s *SQLiteStore) Record(runID string, result types.ProcessingResult) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, file_path, ok, error_message, replacement_count, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, result.FilePath, boolToInt(result.OK), result.ErrMsg, result.ReplacementCount,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// noopRecorder is used when a run is not given a ledger path, so
// report-free runs never open a database handle.
type noopRecorder struct{}

// NewNoop returns a Recorder that discards everything it is given.
func NewNoop() Recorder { return noopRecorder{} }

func (noopRecorder) Record(string, types.ProcessingResult) error { return nil }
func (noopRecorder) Close() error                                { return nil }
