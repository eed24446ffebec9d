package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightside-news/brightside/pkg/domain"
)

func TestCache_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewCache(path)

	snap := Snapshot{
		LastFetched: time.Now().UTC().Truncate(time.Second),
		Articles: map[string][]domain.Article{
			"science": {{Title: "a", Link: "l1", Topic: "science", InspirationScore: 7.5}},
		},
	}
	require.NoError(t, c.Save(snap))

	loaded, err := c.Load()
	require.NoError(t, err)
	assert.True(t, snap.LastFetched.Equal(loaded.LastFetched))
	require.Len(t, loaded.Articles["science"], 1)
	assert.Equal(t, "a", loaded.Articles["science"][0].Title)
	assert.InDelta(t, 7.5, loaded.Articles["science"][0].InspirationScore, 0.0001)
}

func TestCache_LoadMissingFile(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "nope.json"))

	snap, err := c.Load()
	require.NoError(t, err, "missing cache is a fresh start, not an error")
	assert.NotNil(t, snap.Articles)
	assert.Empty(t, snap.Articles)
}

func TestCache_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	snap, err := NewCache(path).Load()
	require.Error(t, err)
	assert.NotNil(t, snap.Articles, "caller gets a usable empty snapshot")
}

func TestCache_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "cache.json")
	c := NewCache(path)

	require.NoError(t, c.Save(Snapshot{Articles: map[string][]domain.Article{}}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestCache_SaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	c := NewCache(path)

	require.NoError(t, c.Save(Snapshot{Articles: map[string][]domain.Article{"a": {{Title: "one", Link: "l1"}}}}))
	require.NoError(t, c.Save(Snapshot{Articles: map[string][]domain.Article{"a": {{Title: "two", Link: "l2"}}}}))

	loaded, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, "two", loaded.Articles["a"][0].Title)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
