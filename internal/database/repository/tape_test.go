package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcalc/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTapeRepoInsertListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTapeRepo(newTestDB(t))

	at := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	entries := []TapeEntry{
		{ID: uuid.NewString(), Expression: "5 + 3", Result: "8", CreatedAt: at},
		{ID: uuid.NewString(), Expression: "6 ÷ 0", Result: "Error", IsError: true, CreatedAt: at},
		{ID: uuid.NewString(), Expression: "0.1 + 0.2", Result: "0.3", CreatedAt: at.Add(time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Insert(ctx, e))
	}

	got, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, entries[2].ID, got[0].ID)
	require.Equal(t, entries[1].ID, got[1].ID)
	require.True(t, got[1].IsError)
	require.Equal(t, "6 ÷ 0", got[1].Expression)
	require.True(t, got[2].CreatedAt.Equal(at))

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, entries[2].ID, limited[0].ID)
}

func TestTapeRepoCountAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewTapeRepo(newTestDB(t))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.Insert(ctx, TapeEntry{ID: uuid.NewString(), Expression: "1 + 1", Result: "2", CreatedAt: database.Now()}))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, repo.Clear(ctx))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTapeRepoInsertRequiresID(t *testing.T) {
	repo := NewTapeRepo(newTestDB(t))
	err := repo.Insert(context.Background(), TapeEntry{Expression: "1 + 1", Result: "2"})
	require.ErrorContains(t, err, "id is required")
}

func TestTapeRepoRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewTapeRepo(newTestDB(t))
	id := uuid.NewString()
	require.NoError(t, repo.Insert(ctx, TapeEntry{ID: id, Expression: "1 + 1", Result: "2", CreatedAt: database.Now()}))
	require.Error(t, repo.Insert(ctx, TapeEntry{ID: id, Expression: "1 + 1", Result: "2", CreatedAt: database.Now()}))
}

func TestTapeRepoInsertBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewTapeRepo(newTestDB(t))
	dup := uuid.NewString()

	err := repo.InsertBatch(ctx, []TapeEntry{
		{ID: dup, Expression: "1 + 1", Result: "2", CreatedAt: database.Now()},
		{ID: dup, Expression: "2 × 2", Result: "4", CreatedAt: database.Now()},
	})
	require.Error(t, err)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, repo.InsertBatch(ctx, []TapeEntry{
		{ID: uuid.NewString(), Expression: "1 + 1", Result: "2", CreatedAt: database.Now()},
		{ID: uuid.NewString(), Expression: "2 × 2", Result: "4", CreatedAt: database.Now()},
	}))
	got, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2 × 2", got[0].Expression)
}
