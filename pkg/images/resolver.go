// Package images picks one representative image URL per article via a
// prioritized fallback chain. Resolution never fails: the favicon service is
// the last resort.
package images

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/brightside-news/brightside/pkg/domain"
)

// DefaultFaviconService is the remote favicon endpoint used as last resort,
// keyed by the article link's domain
const DefaultFaviconService = "https://www.google.com/s2/favicons?domain=%s&sz=128"

var imgTagRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"'>]+)["']`)

var dimensionsRe = regexp.MustCompile(`(\d{1,4})x(\d{1,4})`)

// skipMarkers identify tracking pixels and icon assets that must never be
// selected as the article image
var skipMarkers = []string{"icon", "pixel", "tracker", "tracking", "1x1", "badge"}

// Resolver resolves article images
type Resolver struct {
	placeholderDir string
	faviconService string
}

// NewResolver creates a resolver. placeholderDir may be empty to skip the
// local placeholder step; faviconService defaults to DefaultFaviconService.
func NewResolver(placeholderDir, faviconService string) *Resolver {
	if faviconService == "" {
		faviconService = DefaultFaviconService
	}
	return &Resolver{placeholderDir: placeholderDir, faviconService: faviconService}
}

// Resolve returns exactly one image URL for the entry. Priority order:
// widest media:content image, first media:thumbnail, extracted metadata
// candidate, first acceptable <img> in the entry's HTML, topic-named
// placeholder file, favicon service. metaImage may be empty.
func (r *Resolver) Resolve(entry domain.Entry, metaImage, topic string) string {
	if u := widestMediaContent(entry.MediaContent); u != "" {
		return u
	}

	if len(entry.MediaThumbnails) > 0 {
		return entry.MediaThumbnails[0]
	}

	if metaImage != "" && usableImageURL(metaImage) {
		return metaImage
	}

	for _, html := range []string{entry.Content, entry.Summary} {
		if u := firstUsableImg(html); u != "" {
			return u
		}
	}

	if u := r.placeholder(topic); u != "" {
		return u
	}

	return fmt.Sprintf(r.faviconService, linkDomain(entry.Link))
}

// Favicon returns the favicon-service URL for the link's domain
func (r *Resolver) Favicon(link string) string {
	return fmt.Sprintf(r.faviconService, linkDomain(link))
}

// widestMediaContent picks the media:content entry with the largest declared
// width; entries without a numeric width count as width 0
func widestMediaContent(media []domain.MediaImage) string {
	best, bestWidth := "", -1
	for _, m := range media {
		if m.URL == "" {
			continue
		}
		if m.Width > bestWidth {
			best, bestWidth = m.URL, m.Width
		}
	}
	return best
}

// firstUsableImg extracts the first <img src> from HTML that is neither a
// tracking/icon asset nor a tiny image by filename-encoded dimensions
func firstUsableImg(html string) string {
	if html == "" {
		return ""
	}
	for _, match := range imgTagRe.FindAllStringSubmatch(html, -1) {
		src := match[1]
		if usableImageURL(src) {
			return src
		}
	}
	return ""
}

// usableImageURL rejects tracker/icon URLs and filenames encoding dimensions
// both below 100px
func usableImageURL(src string) bool {
	lower := strings.ToLower(src)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	name := path.Base(lower)
	for _, dims := range dimensionsRe.FindAllStringSubmatch(name, -1) {
		w, _ := strconv.Atoi(dims[1])
		h, _ := strconv.Atoi(dims[2])
		if w < 100 && h < 100 {
			return false
		}
	}
	return true
}

// placeholder returns a topic-named local placeholder if one exists on disk
func (r *Resolver) placeholder(topic string) string {
	if r.placeholderDir == "" || topic == "" {
		return ""
	}
	for _, ext := range []string{".jpg", ".png"} {
		p := filepath.Join(r.placeholderDir, topic+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// linkDomain extracts the host from a link, falling back to the raw string
func linkDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return u.Host
}
