package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/db"
)

func TestOpenDB_FileStoreSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tetsunavi.db")
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, database.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, db.BusyTimeoutMs, timeout)
}

func TestOpenDB_BookmarksSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetsunavi.db")
	first, err := db.OpenDB(path)
	require.NoError(t, err)
	err = db.NewSQLiteUnitOfWork(first).WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertBookmark, "kept", "福岡市")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.OpenDB(path)
	require.NoError(t, err)
	defer second.Close()

	var city string
	require.NoError(t, second.QueryRow(`SELECT to_city FROM bookmarks WHERE session_id = 'kept'`).Scan(&city))
	assert.Equal(t, "福岡市", city)
}

func TestOpenDB_MemoryStoreIsPrivate(t *testing.T) {
	a, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	defer a.Close()
	b, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	defer b.Close()

	_, err = a.Exec(insertBookmark, "only-a", "仙台市")
	require.NoError(t, err)

	var n int
	require.NoError(t, b.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&n))
	assert.Zero(t, n)
}
