package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and run on
// every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS practicums (
		id           TEXT PRIMARY KEY,
		cohort_code  TEXT NOT NULL,
		title        TEXT NOT NULL,
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		log_interval TEXT NOT NULL
		             CHECK(log_interval IN ('daily','weekly','monthly')),
		timeline     TEXT NOT NULL DEFAULT '{"weeks":[],"events":[]}',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_practicums_cohort_code ON practicums(UPPER(cohort_code))`,
	`CREATE INDEX IF NOT EXISTS idx_practicums_start ON practicums(start_date)`,
	`ALTER TABLE practicums ADD COLUMN timeline_saved_at TEXT`,
}
