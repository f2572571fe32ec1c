package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "subscribers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSubscriberRepository(t *testing.T) {
	repo := NewSubscriberRepository(newTestDB(t))

	subs, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, subs)

	added, err := repo.Add(30)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(10)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(30)
	require.NoError(t, err)
	assert.False(t, added)

	subs, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 10}, subs)

	removed, err := repo.Remove(30)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(30)
	require.NoError(t, err)
	assert.False(t, removed)

	subs, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, subs)
}

func TestSubscribersSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribers.db")

	db, err := New(path)
	require.NoError(t, err)
	_, err = NewSubscriberRepository(db).Add(99)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	subs, err := NewSubscriberRepository(db).List()
	require.NoError(t, err)
	assert.Equal(t, []int64{99}, subs)
}
