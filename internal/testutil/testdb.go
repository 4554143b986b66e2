package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/db"
)

// NewTestDB opens an in-memory bookmark store, closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestStore(t, db.MemoryPath)
}

// NewTestDBFile opens a bookmark store on disk under t.TempDir and returns
// its path so the test can reopen it.
func NewTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks", "tetsunavi.db")
	return openTestStore(t, path), path
}

func openTestStore(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW runs transactions against database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
