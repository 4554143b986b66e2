package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a throwaway in-memory store.
const MemoryPath = ":memory:"

// BusyTimeoutMs is how long a connection waits for another tetsunavi
// process holding the bookmark file before failing with SQLITE_BUSY.
const BusyTimeoutMs = 5000

// OpenDB opens the bookmark store at path and brings its schema up to date.
// The parent directory is created readable by the user only.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating bookmark directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("opening bookmark store %s: %w", path, err)
	}
	if memory {
		// Each pooled connection would get its own empty database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening bookmark store %s: %w", path, err)
	}

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}

// dsn appends the pragmas the driver runs on every new connection, so
// pooled connections behave alike. Write transactions take the lock up
// front instead of upgrading from a read lock mid-transaction.
func dsn(path string, memory bool) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", BusyTimeoutMs))
	if !memory {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}
