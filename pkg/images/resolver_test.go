package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightside-news/brightside/pkg/domain"
)

func TestResolver_Resolve_MediaContent(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link: "https://example.com/articles/1",
		MediaContent: []domain.MediaImage{
			{URL: "https://example.com/small.jpg", Width: 100},
			{URL: "https://example.com/big.jpg", Width: 800},
			{URL: "https://example.com/unsized.jpg"},
		},
		MediaThumbnails: []string{"https://example.com/thumb.jpg"},
	}

	assert.Equal(t, "https://example.com/big.jpg", r.Resolve(entry, "", "general"), "widest media content wins")
}

func TestResolver_Resolve_Thumbnail(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link:            "https://example.com/articles/1",
		MediaThumbnails: []string{"https://example.com/thumb.jpg", "https://example.com/thumb2.jpg"},
	}

	assert.Equal(t, "https://example.com/thumb.jpg", r.Resolve(entry, "", "general"))
}

func TestResolver_Resolve_MetaImage(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link:    "https://example.com/articles/1",
		Content: `<img src="https://example.com/inline.jpg">`,
	}

	// extracted metadata candidate outranks the <img> scan
	got := r.Resolve(entry, "https://example.com/og-image.jpg", "general")
	assert.Equal(t, "https://example.com/og-image.jpg", got)

	// but feed-declared media still wins
	entry.MediaThumbnails = []string{"https://example.com/thumb.jpg"}
	got = r.Resolve(entry, "https://example.com/og-image.jpg", "general")
	assert.Equal(t, "https://example.com/thumb.jpg", got)
}

func TestResolver_Resolve_MetaImageUnusable(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link:    "https://example.com/articles/1",
		Content: `<img src="https://example.com/inline.jpg">`,
	}

	// a tracker-looking candidate is skipped, the <img> scan takes over
	got := r.Resolve(entry, "https://example.com/share-icon.png", "general")
	assert.Equal(t, "https://example.com/inline.jpg", got)
}

func TestResolver_Resolve_HTMLImage(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link:    "https://example.com/articles/1",
		Content: `<p>Story text</p><img src="https://example.com/photo.jpg" alt="photo">`,
	}
	assert.Equal(t, "https://example.com/photo.jpg", r.Resolve(entry, "", "general"))

	// content takes priority over summary
	entry.Summary = `<img src="https://example.com/other.jpg">`
	assert.Equal(t, "https://example.com/photo.jpg", r.Resolve(entry, "", "general"))
}

func TestResolver_Resolve_SkipsTrackersAndTiny(t *testing.T) {
	r := NewResolver("", "")

	tests := []struct {
		name string
		html string
	}{
		{"tracking pixel", `<img src="https://example.com/tracker_pixel.gif">`},
		{"icon asset", `<img src="https://example.com/social-icon.png">`},
		{"tiny by filename", `<img src="https://example.com/photo-50x50.jpg">`},
		{"1x1 marker", `<img src="https://example.com/spacer-1x1.gif">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.Entry{Link: "https://example.com/articles/1", Summary: tt.html}
			got := r.Resolve(entry, "", "")
			assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=128", got, "unusable images fall through to the favicon")
		})
	}
}

func TestResolver_Resolve_TinyButLargeDimensionsKept(t *testing.T) {
	r := NewResolver("", "")

	entry := domain.Entry{
		Link:    "https://example.com/articles/1",
		Summary: `<img src="https://example.com/photo-640x480.jpg">`,
	}
	assert.Equal(t, "https://example.com/photo-640x480.jpg", r.Resolve(entry, "", ""))
}

func TestResolver_Resolve_Placeholder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "health.jpg"), []byte("img"), 0o600))

	r := NewResolver(dir, "")

	entry := domain.Entry{Link: "https://example.com/articles/1"}
	assert.Equal(t, filepath.Join(dir, "health.jpg"), r.Resolve(entry, "", "health"))

	// no placeholder for this topic, favicon is the last resort
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=example.com&sz=128", r.Resolve(entry, "", "science"))
}

func TestResolver_Favicon(t *testing.T) {
	r := NewResolver("", "")
	assert.Equal(t, "https://www.google.com/s2/favicons?domain=news.example.com&sz=128",
		r.Favicon("https://news.example.com/feed.xml"))

	// unparseable link falls back to the raw string
	assert.Contains(t, r.Favicon("not a url"), "not a url")
}

func TestResolver_CustomFaviconService(t *testing.T) {
	r := NewResolver("", "https://icons.internal/%s.png")
	entry := domain.Entry{Link: "https://example.com/articles/1"}
	assert.Equal(t, "https://icons.internal/example.com.png", r.Resolve(entry, "", ""))
}
