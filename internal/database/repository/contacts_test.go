package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/contacts/internal/database"
	"github.com/jask/contacts/internal/database/repository"
)

func newRepo(t *testing.T) *repository.ContactRepo {
	t.Helper()
	db, err := database.Open("", filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db, ""))
	return repository.NewContactRepo(db)
}

func TestContactRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC)

	require.NoError(t, repo.Upsert(ctx, repository.Contact{ID: "a", First: "Ada", Last: "Lovelace", Favorite: true, CreatedAt: created}))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Ada", got.First)
	require.True(t, got.Favorite)
	require.True(t, created.Equal(got.CreatedAt))

	got.Favorite = false
	got.Notes = "updated"
	require.NoError(t, repo.Upsert(ctx, *got))
	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, again.Favorite)
	require.Equal(t, "updated", again.Notes)
	require.True(t, created.Equal(again.CreatedAt))

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestContactRepoListOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	base := time.Now().UTC()
	rows := []repository.Contact{
		{ID: "3", First: "Zed", Last: "B", CreatedAt: base.Add(2)},
		{ID: "1", First: "Amy", Last: "B", CreatedAt: base},
		{ID: "2", Last: "A", CreatedAt: base.Add(5)},
		{ID: "4", CreatedAt: base.Add(9)},
	}
	for _, c := range rows {
		require.NoError(t, repo.Upsert(ctx, c))
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	require.Equal(t, []string{"4", "2", "1", "3"}, ids)
}

func TestContactRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.Upsert(ctx, repository.Contact{ID: "a", CreatedAt: time.Now()}))
	require.NoError(t, repo.Delete(ctx, "a"))
	require.ErrorIs(t, repo.Delete(ctx, "a"), repository.ErrNoRows)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
