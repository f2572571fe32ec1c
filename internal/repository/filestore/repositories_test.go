package filestore

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebk/sati-bot/internal/domain"
)

func itoa(n int) string { return strconv.Itoa(n) }

func TestSubscriberRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribers.json")
	repo := NewSubscriberRepository(path, nil)

	subs, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, subs)

	added, err := repo.Add(10)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(-20)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(10)
	require.NoError(t, err)
	assert.False(t, added)

	subs, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{10, -20}, subs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[10, -20]`, string(data))

	removed, err := repo.Remove(10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(10)
	require.NoError(t, err)
	assert.False(t, removed)

	subs, err = repo.List()
	require.NoError(t, err)
	assert.Equal(t, []int64{-20}, subs)
}

func TestSubscriberRepositoryMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscribers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	repo := NewSubscriberRepository(path, nil)
	subs, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, subs)

	added, err := repo.Add(5)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestMeditationRepositoryAppend(t *testing.T) {
	repo := NewMeditationRepository(filepath.Join(t.TempDir(), "meditations.csv"), testOptions(t))
	require.NoError(t, repo.Append(&domain.Meditation{
		Timestamp:   time.Date(2025, 3, 1, 6, 30, 0, 0, time.UTC),
		UserID:      1,
		Username:    "@u",
		ChatID:      100,
		DurationMin: 25,
		Type:        domain.MeditationGuided,
	}))

	rows, err := repo.All()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "25", rows[0].Get(domain.ColDurationMin))
	assert.Equal(t, "guided", rows[0].Get(domain.ColType))
	assert.Equal(t, "", rows[0].Get(domain.ColNote))
}

func TestReflectionLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflections.txt")
	log := NewReflectionLog(path)
	at := time.Date(2025, 3, 1, 21, 0, 0, 0, time.FixedZone("ICT", 7*3600))

	first := &domain.SavedReflection{UserID: 42, Text: "breathe\n", CreatedAt: at}
	require.NoError(t, log.Append(first))
	require.NotEmpty(t, first.Ref)

	require.NoError(t, log.Append(&domain.SavedReflection{Ref: "fixed", UserID: 7, Text: "second", CreatedAt: at}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	blocks := strings.Split(strings.TrimSuffix(string(data), "---\n"), "---\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, "2025-03-01T21:00:00+07:00 | user:42 | ref:"+first.Ref+"\nbreathe\n", blocks[0])
	assert.Equal(t, "2025-03-01T21:00:00+07:00 | user:7 | ref:fixed\nsecond\n", blocks[1])
}
