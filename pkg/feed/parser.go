// Package feed fetches and parses syndication feeds and manages the
// operator-editable feed and removed-article lists.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/brightside-news/brightside/pkg/domain"
)

// Parser parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL. A structurally malformed
// feed that still yields entries is returned with Malformed set rather than
// failing; the caller decides how loudly to complain.
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.ParsedFeed{
		Title:   parsed.Title,
		Link:    parsed.Link,
		Entries: make([]domain.Entry, 0, len(parsed.Items)),
		// gofeed either parses or fails outright, so structural gaps in an
		// otherwise parseable feed are the ill-formedness signal
		Malformed: parsed.Title == "",
	}

	for _, item := range parsed.Items {
		if item.Title == "" || item.Link == "" {
			result.Malformed = true
		}
		entry := domain.Entry{
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
			Content: item.Content,
		}

		// summary falls back to content when the feed has no description
		if entry.Summary == "" {
			entry.Summary = item.Content
		}

		// published falls back to updated, then to fetch time
		switch {
		case item.PublishedParsed != nil:
			entry.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			entry.Published = *item.UpdatedParsed
		default:
			entry.Published = time.Now()
		}

		entry.MediaContent, entry.MediaThumbnails = mediaImages(item)

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// mediaImages pulls media:content and media:thumbnail data from the item's
// extensions. Non-numeric width attributes are treated as 0.
func mediaImages(item *gofeed.Item) (content []domain.MediaImage, thumbnails []string) {
	media, ok := item.Extensions["media"]
	if !ok {
		return nil, nil
	}

	for _, ext := range media["content"] {
		url := ext.Attrs["url"]
		if url == "" {
			continue
		}
		width, _ := strconv.Atoi(ext.Attrs["width"])
		content = append(content, domain.MediaImage{URL: url, Width: width})
	}

	for _, ext := range media["thumbnail"] {
		if url := ext.Attrs["url"]; url != "" {
			thumbnails = append(thumbnails, url)
		}
	}

	return content, thumbnails
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
