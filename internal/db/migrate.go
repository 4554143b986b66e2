package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so it
// is safe to run on each start.
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
	`CREATE TABLE IF NOT EXISTS bookmarks (
		session_id      TEXT PRIMARY KEY,
		from_prefecture TEXT NOT NULL DEFAULT '',
		from_city       TEXT NOT NULL DEFAULT '',
		to_prefecture   TEXT NOT NULL DEFAULT '',
		to_city         TEXT NOT NULL DEFAULT '',
		move_date       TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		last_used_at    TEXT NOT NULL
	)`,

	`ALTER TABLE bookmarks ADD COLUMN active INTEGER NOT NULL DEFAULT 0 CHECK(active IN (0, 1))`,

	`CREATE INDEX IF NOT EXISTS idx_bookmarks_last_used ON bookmarks(last_used_at)`,
}
