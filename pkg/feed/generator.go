package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/brightside-news/brightside/pkg/domain"
)

// Generator renders stored articles as an RSS 2.0 feed
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GenerateRSS creates an RSS 2.0 feed from articles, optionally scoped to a topic
func (g *Generator) GenerateRSS(articles []domain.Article, topic string) (string, error) {
	title := "BrightSide - Positive News"
	selfLink := g.baseURL + "/rss"
	if topic != "" {
		title = fmt.Sprintf("BrightSide - %s", topic)
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, topic)
	}

	rssItems := make([]*RSSItem, 0, len(articles))
	for _, article := range articles {
		rssItems = append(rssItems, g.convertToRSSItem(article))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Uplifting stories filtered and scored for positivity",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: time.Now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts a stored article to an RSS item
func (g *Generator) convertToRSSItem(article domain.Article) *RSSItem {
	desc := article.Summary
	if len(article.Tags) > 0 {
		names := make([]string, 0, len(article.Tags))
		for _, t := range article.Tags {
			names = append(names, t.Name)
		}
		desc += fmt.Sprintf("\n\nTags: %s", strings.Join(names, ", "))
	}

	item := &RSSItem{
		Title:       fmt.Sprintf("[%.1f] %s", article.InspirationScore, article.Title),
		Link:        article.Link,
		GUID:        article.Link,
		Description: desc,
		PubDate:     article.Published.Format(time.RFC1123Z),
		Categories:  []string{article.Topic},
	}
	if article.ImageURL != "" {
		item.Enclosure = &RSSEnclosure{URL: article.ImageURL, Type: "image/jpeg"}
	}
	return item
}
