package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
	// closing twice is a no-op
	require.NoError(t, store.Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// re-running is idempotent
	require.NoError(t, store.Migrate())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	assert.Error(t, store.Migrate())
	assert.Error(t, store.Set(ctx, "k", "v"))
	_, err := store.Get(ctx, "k")
	assert.Error(t, err)
	_, err = store.Keys(ctx)
	assert.Error(t, err)
}

func TestSQLiteStore_CRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "b", `"two"`))
	require.NoError(t, store.Set(ctx, "a", `1`))
	require.NoError(t, store.Set(ctx, "b", `[2]`))

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, got)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	removed, err := store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, removed)

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first := NewSQLiteStore()
	require.NoError(t, first.Open(path))
	require.NoError(t, first.Set(ctx, "visits", "3"))
	require.NoError(t, first.Close())

	second := NewSQLiteStore()
	require.NoError(t, second.Open(path))
	t.Cleanup(func() { _ = second.Close() })

	assert.Equal(t, path, second.Path())
	got, err := second.Get(ctx, "visits")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}
