package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/db"
	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// SQLiteBookmarkRepo implements BookmarkRepo on SQLite.
type SQLiteBookmarkRepo struct {
	db db.DBTX
}

// NewSQLiteBookmarkRepo accepts a *sql.DB or a *sql.Tx.
func NewSQLiteBookmarkRepo(conn db.DBTX) *SQLiteBookmarkRepo {
	return &SQLiteBookmarkRepo{db: conn}
}

const bookmarkColumns = `session_id, from_prefecture, from_city, to_prefecture, to_city,
	move_date, active, created_at, last_used_at`

func (r *SQLiteBookmarkRepo) Save(ctx context.Context, b *domain.Bookmark) error {
	if b.SessionID == "" {
		return fmt.Errorf("saving bookmark: empty session id")
	}
	createdAt, lastUsed := b.CreatedAt, b.LastUsedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if lastUsed.IsZero() {
		lastUsed = createdAt
	}
	query := `INSERT INTO bookmarks (` + bookmarkColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			from_prefecture = excluded.from_prefecture,
			from_city       = excluded.from_city,
			to_prefecture   = excluded.to_prefecture,
			to_city         = excluded.to_city,
			move_date       = excluded.move_date,
			last_used_at    = excluded.last_used_at`
	_, err := r.db.ExecContext(ctx, query,
		b.SessionID,
		b.MoveFrom.Prefecture, b.MoveFrom.City,
		b.MoveTo.Prefecture, b.MoveTo.City,
		b.MoveDate,
		boolToInt(b.Active),
		formatTime(createdAt),
		formatTime(lastUsed),
	)
	if err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}
	return nil
}

func (r *SQLiteBookmarkRepo) GetByID(ctx context.Context, sessionID string) (*domain.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks WHERE session_id = ?`, sessionID)
	return scanBookmark(row)
}

func (r *SQLiteBookmarkRepo) Latest(ctx context.Context) (*domain.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks
		ORDER BY active DESC, last_used_at DESC, created_at DESC LIMIT 1`)
	return scanBookmark(row)
}

func (r *SQLiteBookmarkRepo) List(ctx context.Context) ([]*domain.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks
		ORDER BY last_used_at DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return out, nil
}

func (r *SQLiteBookmarkRepo) Touch(ctx context.Context, sessionID string, at time.Time) error {
	return r.execOne(ctx, "touching bookmark",
		`UPDATE bookmarks SET last_used_at = ? WHERE session_id = ?`, formatTime(at), sessionID)
}

// SetActive flags one bookmark. Callers clear the previous one first,
// normally in the same transaction.
func (r *SQLiteBookmarkRepo) SetActive(ctx context.Context, sessionID string) error {
	return r.execOne(ctx, "activating bookmark",
		`UPDATE bookmarks SET active = 1 WHERE session_id = ?`, sessionID)
}

func (r *SQLiteBookmarkRepo) ClearActive(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE bookmarks SET active = 0 WHERE active = 1`); err != nil {
		return fmt.Errorf("clearing active bookmark: %w", err)
	}
	return nil
}

func (r *SQLiteBookmarkRepo) Delete(ctx context.Context, sessionID string) error {
	return r.execOne(ctx, "deleting bookmark", `DELETE FROM bookmarks WHERE session_id = ?`, sessionID)
}

// execOne runs a statement that must affect exactly one bookmark.
func (r *SQLiteBookmarkRepo) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("bookmark: %w", ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var active int
	var createdAt, lastUsed string
	err := row.Scan(
		&b.SessionID,
		&b.MoveFrom.Prefecture, &b.MoveFrom.City,
		&b.MoveTo.Prefecture, &b.MoveTo.City,
		&b.MoveDate, &active, &createdAt, &lastUsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bookmark: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning bookmark: %w", err)
	}
	b.Active = intToBool(active)
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if b.LastUsedAt, err = parseTime(lastUsed); err != nil {
		return nil, fmt.Errorf("parsing last_used_at: %w", err)
	}
	return &b, nil
}
