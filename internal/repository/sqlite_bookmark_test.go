package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/db"
	"github.com/tetsunavi/tetsunavi/internal/domain"
	"github.com/tetsunavi/tetsunavi/internal/testutil"
)

func newBookmarkRepo(t *testing.T) *SQLiteBookmarkRepo {
	t.Helper()
	return NewSQLiteBookmarkRepo(testutil.NewTestDB(t))
}

func TestBookmarkRepo_SaveAndGetByID(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()

	b := testutil.NewTestBookmark(testutil.WithRoute(
		domain.Location{Prefecture: "大阪府", City: "大阪市"},
		domain.Location{Prefecture: "福岡県", City: "福岡市"},
	))
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.GetByID(ctx, b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, b.SessionID, got.SessionID)
	assert.Equal(t, "大阪市", got.MoveFrom.City)
	assert.Equal(t, "福岡県", got.MoveTo.Prefecture)
	assert.Equal(t, b.MoveDate, got.MoveDate)
	assert.False(t, got.Active)
	assert.WithinDuration(t, b.CreatedAt, got.CreatedAt, time.Microsecond)
	assert.Equal(t, "大阪府大阪市 → 福岡県福岡市", got.Route())
}

func TestBookmarkRepo_GetByID_NotFound(t *testing.T) {
	repo := newBookmarkRepo(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookmarkRepo_SaveUpserts(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()

	b := testutil.NewTestBookmark(testutil.WithActive())
	require.NoError(t, repo.Save(ctx, b))

	b.MoveDate = "2030-01-01"
	b.Active = false
	b.LastUsedAt = b.LastUsedAt.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.GetByID(ctx, b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01", got.MoveDate)
	assert.True(t, got.Active, "save does not change the active flag of an existing row")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookmarkRepo_SaveRequiresID(t *testing.T) {
	repo := newBookmarkRepo(t)
	assert.Error(t, repo.Save(context.Background(), &domain.Bookmark{}))
}

func TestBookmarkRepo_ListOrderAndLatest(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := testutil.NewTestBookmark(testutil.WithLastUsed(base.Add(-48 * time.Hour)))
	mid := testutil.NewTestBookmark(testutil.WithLastUsed(base.Add(-time.Hour)))
	recent := testutil.NewTestBookmark(testutil.WithLastUsed(base.Add(-500 * time.Millisecond)))
	for _, b := range []*domain.Bookmark{mid, old, recent} {
		require.NoError(t, repo.Save(ctx, b))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{recent.SessionID, mid.SessionID, old.SessionID},
		[]string{list[0].SessionID, list[1].SessionID, list[2].SessionID})

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, recent.SessionID, latest.SessionID)

	require.NoError(t, repo.SetActive(ctx, old.SessionID))
	latest, err = repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, old.SessionID, latest.SessionID, "the active bookmark wins over recency")
}

func TestBookmarkRepo_LatestEmpty(t *testing.T) {
	repo := newBookmarkRepo(t)
	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookmarkRepo_Touch(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()
	b := testutil.NewTestBookmark()
	require.NoError(t, repo.Save(ctx, b))

	at := b.LastUsedAt.Add(3 * time.Hour)
	require.NoError(t, repo.Touch(ctx, b.SessionID, at))

	got, err := repo.GetByID(ctx, b.SessionID)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.LastUsedAt))

	assert.ErrorIs(t, repo.Touch(ctx, "missing", at), ErrNotFound)
}

func TestBookmarkRepo_ActiveFlag(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()
	a := testutil.NewTestBookmark()
	b := testutil.NewTestBookmark()
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	require.NoError(t, repo.SetActive(ctx, a.SessionID))
	require.NoError(t, repo.ClearActive(ctx))
	require.NoError(t, repo.SetActive(ctx, b.SessionID))

	gotA, err := repo.GetByID(ctx, a.SessionID)
	require.NoError(t, err)
	gotB, err := repo.GetByID(ctx, b.SessionID)
	require.NoError(t, err)
	assert.False(t, gotA.Active)
	assert.True(t, gotB.Active)

	assert.ErrorIs(t, repo.SetActive(ctx, "missing"), ErrNotFound)
}

func TestBookmarkRepo_Delete(t *testing.T) {
	repo := newBookmarkRepo(t)
	ctx := context.Background()
	b := testutil.NewTestBookmark()
	require.NoError(t, repo.Save(ctx, b))

	require.NoError(t, repo.Delete(ctx, b.SessionID))
	_, err := repo.GetByID(ctx, b.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.SessionID), ErrNotFound)
}

func TestBookmarkRepo_WithinTxRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteBookmarkRepo(database)
	a := testutil.NewTestBookmark(testutil.WithActive())
	b := testutil.NewTestBookmark()
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	boom := errors.New("boom")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepo := NewSQLiteBookmarkRepo(tx)
		if err := txRepo.ClearActive(ctx); err != nil {
			return err
		}
		return txRepo.SetActive(ctx, b.SessionID)
	})
	require.ErrorIs(t, err, boom)

	gotA, err := repo.GetByID(ctx, a.SessionID)
	require.NoError(t, err)
	assert.True(t, gotA.Active, "clearing is rolled back with the failed activation")
}
