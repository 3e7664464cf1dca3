package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		provider    TEXT NOT NULL,
		model       TEXT NOT NULL,
		selection   TEXT NOT NULL,
		strict      INTEGER NOT NULL DEFAULT 0 CHECK(strict IN (0, 1)),
		row_count   INTEGER NOT NULL DEFAULT 0,
		started_at  TEXT NOT NULL,
		finished_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

	`CREATE TABLE IF NOT EXISTS run_results (
		run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		row_index  INTEGER NOT NULL,
		text       TEXT NOT NULL,
		category   TEXT NOT NULL,
		known_code INTEGER NOT NULL DEFAULT 1 CHECK(known_code IN (0, 1)),
		language   TEXT NOT NULL DEFAULT '',
		error      TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, row_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_results_category ON run_results(run_id, category)`,

	// Added after the first release; older databases get the column here.
	`ALTER TABLE runs ADD COLUMN duplicates_removed INTEGER NOT NULL DEFAULT 0`,
}
