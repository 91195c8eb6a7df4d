package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendastv/ltv/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "choices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	got, err := store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	assert.Nil(t, got)

	choice := testChoice("breaking bad/s02", 100)
	require.NoError(t, store.Remember(ctx, choice))

	got, err = store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.NameKey("breaking bad/s02"), got.Key)
	assert.Equal(t, choice.Title.ID, got.Title.ID)
	assert.Equal(t, choice.Title.Category, got.Title.Category)
	assert.Equal(t, choice.Title.Season, got.Title.Season)
	require.NotNil(t, got.Subtitle)
	assert.Equal(t, choice.Subtitle.Hash, got.Subtitle.Hash)
	assert.Equal(t, choice.Subtitle.Release, got.Subtitle.Release)
	assert.True(t, got.Subtitle.Pack)
}

func TestSQLiteStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Remember(ctx, testChoice("breaking bad/s02", 100)))
	require.NoError(t, store.Remember(ctx, testChoice("breaking bad/s02", 200)))

	got, err := store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.Title.ID)
}

func TestSQLiteStoreTitleOnlyChoice(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	choice := testChoice("amadeus", 7)
	choice.Subtitle = nil
	require.NoError(t, store.Remember(ctx, choice))

	got, err := store.Lookup(ctx, "amadeus")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Subtitle)
}

func TestSQLiteStoreForgetAndClear(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Remember(ctx, testChoice("breaking bad/s02", 100)))
	require.NoError(t, store.Remember(ctx, testChoice("mad men/s01", 101)))

	require.NoError(t, store.Forget(ctx, "breaking bad/s02"))
	got, err := store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Lookup(ctx, "mad men/s01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStoreRejectsEmptyKey(t *testing.T) {
	store := newTestSQLiteStore(t)

	choice := testChoice("", 1)
	choice.Key = ""
	assert.Error(t, store.Remember(context.Background(), choice))
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "choices.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Remember(ctx, testChoice("breaking bad/s02", 100)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 100, got.Title.ID)
}
