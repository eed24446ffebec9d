package feed

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-pkgz/lgr"
)

// Sources manages the operator-editable feed URL list and the removed-article
// link list, both plain text files, one entry per line. A single coarse lock
// serializes all file access.
type Sources struct {
	feedsPath   string
	removedPath string

	mu      sync.Mutex
	removed map[string]struct{}
}

// NewSources creates a sources manager over the given file paths
func NewSources(feedsPath, removedPath string) *Sources {
	return &Sources{
		feedsPath:   feedsPath,
		removedPath: removedPath,
		removed:     make(map[string]struct{}),
	}
}

// FeedURLs reads the feed URL list. Blank lines and #-comments are skipped.
// A missing file is not an error, just an empty list.
func (s *Sources) FeedURLs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.feedsPath)
	if err != nil {
		if os.IsNotExist(err) {
			lgr.Printf("[WARN] feeds file not found at %s", s.feedsPath)
			return nil, nil
		}
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

// SaveFeedURLs overwrites the feed URL list
func (s *Sources) SaveFeedURLs(urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(s.feedsPath, []byte(sb.String()), 0o644); err != nil { //nolint:gosec // operator-owned list, not sensitive
		return fmt.Errorf("write feeds file: %w", err)
	}
	return nil
}

// AddFeedURL appends a feed URL if not already present
func (s *Sources) AddFeedURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("empty feed url")
	}

	urls, err := s.FeedURLs()
	if err != nil {
		return err
	}
	for _, u := range urls {
		if u == url {
			return fmt.Errorf("feed already present: %s", url)
		}
	}
	return s.SaveFeedURLs(append(urls, url))
}

// RemoveFeedURL deletes a feed URL from the list
func (s *Sources) RemoveFeedURL(url string) error {
	urls, err := s.FeedURLs()
	if err != nil {
		return err
	}

	kept := urls[:0]
	found := false
	for _, u := range urls {
		if u == url {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return fmt.Errorf("feed not found: %s", url)
	}
	return s.SaveFeedURLs(kept)
}

// LoadRemoved reloads the removed-article link set from disk. Called at the
// start of every pipeline run so operator edits take effect immediately.
func (s *Sources) LoadRemoved() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.removedPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.removed = make(map[string]struct{})
			return nil
		}
		return fmt.Errorf("read removed articles file: %w", err)
	}

	removed := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			removed[line] = struct{}{}
		}
	}
	s.removed = removed
	lgr.Printf("[DEBUG] loaded %d removed article links", len(removed))
	return nil
}

// IsRemoved reports whether a link was removed by the operator
func (s *Sources) IsRemoved(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.removed[link]
	return ok
}

// AddRemoved appends a link to the removed list file and the in-memory set
func (s *Sources) AddRemoved(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Errorf("empty link")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.removed[link]; ok {
		return nil // already removed
	}

	f, err := os.OpenFile(s.removedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // operator-owned list
	if err != nil {
		return fmt.Errorf("open removed articles file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(link + "\n"); err != nil {
		return fmt.Errorf("append removed article: %w", err)
	}
	s.removed[link] = struct{}{}
	return nil
}
