package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tetsunavi/tetsunavi/internal/domain"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

type BookmarkRepo interface {
	// Save inserts b or updates the stored route and last use of an
	// existing bookmark. The active flag is left alone.
	Save(ctx context.Context, b *domain.Bookmark) error
	GetByID(ctx context.Context, sessionID string) (*domain.Bookmark, error)
	// Latest returns the active bookmark, or the most recently used one.
	Latest(ctx context.Context) (*domain.Bookmark, error)
	List(ctx context.Context) ([]*domain.Bookmark, error)
	Touch(ctx context.Context, sessionID string, at time.Time) error
	SetActive(ctx context.Context, sessionID string) error
	ClearActive(ctx context.Context) error
	Delete(ctx context.Context, sessionID string) error
}
