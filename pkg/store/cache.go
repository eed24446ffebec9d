// Package store holds the topic-keyed article store and its durable JSON
// cache file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brightside-news/brightside/pkg/domain"
)

// Snapshot is the persisted cache document
type Snapshot struct {
	LastFetched time.Time                   `json:"last_fetched"`
	Articles    map[string][]domain.Article `json:"articles"`
}

// Cache reads and writes the article cache file
type Cache struct {
	path string
}

// NewCache creates a cache over the given file path
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the persisted snapshot. A missing file yields an empty snapshot
// without error; a corrupt file yields an empty snapshot and the error, so the
// caller can log and continue with a fresh store.
func (c *Cache) Load() (Snapshot, error) {
	empty := Snapshot{Articles: make(map[string][]domain.Article)}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, fmt.Errorf("read cache file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return empty, fmt.Errorf("parse cache file: %w", err)
	}
	if snap.Articles == nil {
		snap.Articles = make(map[string][]domain.Article)
	}
	return snap, nil
}

// Save persists the snapshot atomically: write to a temp file in the same
// directory, then rename over the target. A crash mid-write leaves the
// previous cache intact.
func (c *Cache) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}
