package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertPracticum(t *testing.T, db *sql.DB, id, code, start, end, interval string) error {
	t.Helper()
	_, err := db.Exec(`INSERT INTO practicums (id, cohort_code, title, start_date, end_date, log_interval, created_at, updated_at)
		VALUES (?, ?, 'Cohort', ?, ?, ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		id, code, start, end, interval)
	return err
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesSchema(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='practicums'`).Scan(&name)
	require.NoError(t, err)

	for _, idx := range []string{"idx_practicums_cohort_code", "idx_practicums_start"} {
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}

	var cols int
	err = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('practicums') WHERE name = 'timeline_saved_at'`).Scan(&cols)
	require.NoError(t, err)
	assert.Equal(t, 1, cols)
}

func TestMigrate_DefaultTimelineIsEmptyDocument(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, insertPracticum(t, db, "p1", "PC-AAAAAA", "2026-01-05", "2026-01-18", "weekly"))

	var doc string
	require.NoError(t, db.QueryRow(`SELECT timeline FROM practicums WHERE id = 'p1'`).Scan(&doc))
	assert.JSONEq(t, `{"weeks":[],"events":[]}`, doc)
}

func TestMigrate_Constraints(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, insertPracticum(t, db, "p1", "PC-AAAAAA", "2026-01-05", "2026-01-18", "weekly"))

	assert.Error(t, insertPracticum(t, db, "p2", "pc-aaaaaa", "2026-01-05", "2026-01-18", "weekly"), "cohort codes are unique regardless of case")
	assert.Error(t, insertPracticum(t, db, "p3", "PC-BBBBBB", "2026-01-05", "2026-01-18", "hourly"), "unknown interval")
	assert.Error(t, insertPracticum(t, db, "p4", "PC-CCCCCC", "2026-01-18", "2026-01-05", "daily"), "inverted range")
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "practicum.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}
