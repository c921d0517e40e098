package store

import "database/sql"

// schemaVersion is bumped whenever CreateSchema's DDL changes shape.
const schemaVersion = 1

// CreateSchema creates the single-table run ledger if it does not already
// exist: one per-file outcome row per run.
func CreateSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT NOT NULL,
			file_path         TEXT NOT NULL,
			ok                INTEGER NOT NULL,
			error_message     TEXT,
			replacement_count INTEGER NOT NULL,
			recorded_at       TEXT NOT NULL,
			PRIMARY KEY (run_id, file_path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs (run_id)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
		return err
	}
	return nil
}
