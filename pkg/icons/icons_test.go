package icons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `[
  {"annotation": "rocket", "hexcode": "1F680"},
  {"annotation": "Good News", "hexcode": "1F5DE"},
  {"annotation": "personal growth", "hexcode": "1F4C8"},
  {"annotation": "no hexcode", "hexcode": ""}
]`

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openmoji.json")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o600))

	table := Load(context.Background(), path, "")

	assert.Equal(t, "1F680", table.Lookup("rocket"))
	assert.Equal(t, "1F5DE", table.Lookup("good news"), "dataset entry shadows the fallback")
	assert.Equal(t, "1F4C8", table.Lookup("personal_growth"), "underscores match spaced annotations")
	assert.Equal(t, "", table.Lookup("nonexistent"))
}

func TestLoad_FallbacksOnly(t *testing.T) {
	table := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")

	assert.Equal(t, "1F4BB", table.Lookup("technology"))
	assert.Equal(t, "1F31E", table.Lookup("good news"))
	assert.Equal(t, "", table.Lookup("rocket"), "dataset-only entries unavailable")
}

func TestLoad_RemoteDownload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(dataset))
	}))
	defer ts.Close()

	table := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), ts.URL)
	assert.Equal(t, "1F680", table.Lookup("rocket"))
}

func TestLoad_RemoteRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(dataset))
	}))
	defer ts.Close()

	table := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), ts.URL)
	assert.Equal(t, "1F680", table.Lookup("rocket"), "transient failures retried")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestLoad_CorruptDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openmoji.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	table := Load(context.Background(), path, "")
	assert.Equal(t, "1F52C", table.Lookup("science"), "corrupt dataset degrades to fallbacks")
}

func TestLookup_CaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openmoji.json")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o600))

	table := Load(context.Background(), path, "")
	assert.Equal(t, "1F680", table.Lookup("Rocket"))
	assert.Equal(t, "1F680", table.Lookup("ROCKET"))
}
