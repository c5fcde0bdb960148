package database

import (
	"database/sql"
	"fmt"
)

// RunMigrations creates the sessions table. Safe to call on every run.
// Start times are stored as epoch seconds and act as the primary key:
// re-running a sync over an overlapping window cannot double-insert.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			user_user_name TEXT NOT NULL,
			session_id TEXT NOT NULL,
			device_id TEXT,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			energy REAL NOT NULL,
			user_full_name TEXT,
			charger_id TEXT,
			device_name TEXT,
			user_email TEXT,
			user_id TEXT,
			PRIMARY KEY (start_time)
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %v", i+1, err)
		}
	}

	return nil
}
