// Package icons resolves topic annotations to icon identifiers using an
// OpenMoji-style annotation dataset with hardcoded fallbacks.
package icons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// annotation is one entry of the dataset, e.g. {"annotation": "rocket", "hexcode": "1F680"}
type annotation struct {
	Annotation string `json:"annotation"`
	Hexcode    string `json:"hexcode"`
}

// fallbacks cover the fixed topic vocabulary when the dataset has no match
var fallbacks = map[string]string{
	"technology":      "1F4BB",
	"science":         "1F52C",
	"business":        "1F4BC",
	"health":          "1FA7A",
	"environment":     "1F331",
	"personal_growth": "1F331",
	"social_impact":   "1F91D",
	"culture":         "1F3A8",
	"travel":          "1F9ED",
	"relationships":   "1F49E",
	"sports":          "1F3C5",
	"general":         "1F4F0",
	"good news":       "1F31E",
}

// Table maps lowercased annotations to icon identifiers, built once at startup
type Table struct {
	byAnnotation map[string]string
}

// Load builds the table from a local dataset file. When the file is missing
// and remoteURL is set, the dataset is downloaded with backoff retries.
// A completely unavailable dataset degrades to the hardcoded fallbacks.
func Load(ctx context.Context, path, remoteURL string) *Table {
	t := &Table{byAnnotation: make(map[string]string)}

	data, err := os.ReadFile(path) //nolint:gosec // dataset path comes from config
	if err != nil && remoteURL != "" {
		data, err = download(ctx, remoteURL)
	}
	if err != nil {
		lgr.Printf("[WARN] icon dataset unavailable, using fallbacks only: %v", err)
		return t
	}

	var entries []annotation
	if err := json.Unmarshal(data, &entries); err != nil {
		lgr.Printf("[WARN] can't parse icon dataset: %v", err)
		return t
	}

	for _, e := range entries {
		if e.Annotation == "" || e.Hexcode == "" {
			continue
		}
		t.byAnnotation[strings.ToLower(e.Annotation)] = e.Hexcode
	}
	lgr.Printf("[INFO] loaded %d icon annotations", len(t.byAnnotation))
	return t
}

// Lookup resolves a topic to an icon identifier, "" when unknown.
// Underscores in topic names match spaced annotations.
func (t *Table) Lookup(topic string) string {
	key := strings.ToLower(topic)
	if id, ok := t.byAnnotation[strings.ReplaceAll(key, "_", " ")]; ok {
		return id
	}
	if id, ok := fallbacks[key]; ok {
		return id
	}
	return ""
}

// download fetches the dataset with backoff retries
func download(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var data []byte
	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download icon dataset: %w", err)
	}
	return data, nil
}
