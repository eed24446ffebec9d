// Package pipeline orchestrates the fetch → filter → classify → score →
// image → tag chain and merges admitted articles into the store, persisting
// after every feed that contributed new articles.
package pipeline

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/brightside-news/brightside/pkg/classify"
	"github.com/brightside-news/brightside/pkg/content"
	"github.com/brightside-news/brightside/pkg/domain"
	"github.com/brightside-news/brightside/pkg/images"
	"github.com/brightside-news/brightside/pkg/store"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . Sources

// Parser fetches and parses one feed URL
type Parser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// Sources provides the feed URL list and the removed-link set
type Sources interface {
	FeedURLs() ([]string, error)
	LoadRemoved() error
	IsRemoved(link string) bool
}

// Extractor backfills article text for entries with empty or stub summaries
type Extractor interface {
	Extract(ctx context.Context, url string) (*content.ExtractResult, error)
}

// Pipeline processes feeds strictly one at a time, in order
type Pipeline struct {
	parser  Parser
	sources Sources
	filter  *classify.Filter
	topics  *classify.TopicClassifier
	scorer  classify.Scorer
	tagger  *classify.Tagger
	images  *images.Resolver
	store   *store.Store
	cache   *store.Cache

	extractor        Extractor // nil when extraction is disabled
	minSummaryLength int

	sanitizer  *bluemonday.Policy
	whitespace *regexp.Regexp
}

// Config holds pipeline dependencies
type Config struct {
	Parser           Parser
	Sources          Sources
	Filter           *classify.Filter
	Topics           *classify.TopicClassifier
	Scorer           classify.Scorer
	Tagger           *classify.Tagger
	Images           *images.Resolver
	Store            *store.Store
	Cache            *store.Cache
	Extractor        Extractor
	MinSummaryLength int
}

// New creates a pipeline
func New(cfg Config) *Pipeline {
	return &Pipeline{
		parser:           cfg.Parser,
		sources:          cfg.Sources,
		filter:           cfg.Filter,
		topics:           cfg.Topics,
		scorer:           cfg.Scorer,
		tagger:           cfg.Tagger,
		images:           cfg.Images,
		store:            cfg.Store,
		cache:            cfg.Cache,
		extractor:        cfg.Extractor,
		minSummaryLength: cfg.MinSummaryLength,
		sanitizer:        bluemonday.StrictPolicy(),
		whitespace:       regexp.MustCompile(`\s+`),
	}
}

// Run executes one full pipeline pass over all configured feeds. Feed-level
// failures are logged and isolated; the run itself only fails when the feed
// list cannot be read. Returns the number of newly admitted articles.
func (p *Pipeline) Run(ctx context.Context) (added int, err error) {
	// operator edits to the removed list take effect at run start
	if err := p.sources.LoadRemoved(); err != nil {
		lgr.Printf("[WARN] can't reload removed articles: %v", err)
	}

	urls, err := p.sources.FeedURLs()
	if err != nil {
		return 0, err
	}

	lgr.Printf("[INFO] pipeline run started, %d feeds", len(urls))

	for _, feedURL := range urls {
		select {
		case <-ctx.Done():
			return added, ctx.Err()
		default:
		}
		added += p.processFeed(ctx, feedURL)
	}

	p.store.SetLastFetched(time.Now().UTC())
	if err := p.cache.Save(p.store.Snapshot()); err != nil {
		lgr.Printf("[WARN] can't persist cache after run: %v", err)
	}

	lgr.Printf("[INFO] pipeline run completed, %d new articles, %d total", added, p.store.Count())
	return added, nil
}

// processFeed fetches one feed and merges its admissible entries. Fetch and
// parse errors skip the feed; the caller continues with the next one.
func (p *Pipeline) processFeed(ctx context.Context, feedURL string) int {
	lgr.Printf("[DEBUG] fetching feed: %s", feedURL)

	parsed, err := p.parser.Parse(ctx, feedURL)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch or parse feed %s: %v", feedURL, err)
		return 0
	}
	if parsed.Malformed {
		lgr.Printf("[WARN] feed may be ill-formed: %s", feedURL)
	}

	sourceName := parsed.Title
	if sourceName == "" {
		sourceName = feedDomain(feedURL)
	}

	newCount := 0
	for _, entry := range parsed.Entries {
		article, ok := p.processEntry(ctx, entry, sourceName, feedURL)
		if !ok {
			continue
		}
		if p.store.Add(article) {
			newCount++
		}
	}

	// persist after every feed that contributed something, so a crash
	// mid-run loses at most the current feed
	if newCount > 0 {
		p.store.SortBuckets()
		p.store.SetLastFetched(time.Now().UTC())
		if err := p.cache.Save(p.store.Snapshot()); err != nil {
			lgr.Printf("[WARN] can't persist cache after feed %s: %v", feedURL, err)
		}
		lgr.Printf("[INFO] added %d new articles from %s", newCount, sourceName)
	}
	return newCount
}

// processEntry runs the per-entry chain. A panic in any classifier is
// contained here so one bad entry cannot abort the whole feed.
func (p *Pipeline) processEntry(ctx context.Context, entry domain.Entry, sourceName, feedURL string) (article domain.Article, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[WARN] entry processing panicked for %q: %v", entry.Link, r)
			ok = false
		}
	}()

	if entry.Title == "" || entry.Link == "" {
		return article, false
	}
	if p.sources.IsRemoved(entry.Link) {
		return article, false
	}

	summary := p.cleanText(entry.Summary)
	summary, metaImage := p.backfillSummary(ctx, entry.Link, summary)

	admissible, sentimentScore := p.filter.Admissible(entry.Title, summary)
	if !admissible {
		return article, false
	}

	topic, icon := p.topics.Classify(entry.Title, summary)

	dims, err := p.scorer.Score(ctx, entry.Title, summary)
	if err != nil {
		// safe default: midpoint score, no tag boost
		lgr.Printf("[WARN] scoring failed for %q, using default: %v", entry.Link, err)
		dims = domain.UniformDimensions(5)
	}

	article = domain.Article{
		Title:            entry.Title,
		Link:             entry.Link,
		Summary:          summary,
		Published:        entry.Published,
		SentimentScore:   sentimentScore,
		InspirationScore: dims.Composite,
		Dimensions:       dims,
		Topic:            topic,
		TopicIcon:        icon,
		SourceIcon:       p.images.Favicon(feedURL),
		SourceName:       sourceName,
		SourceFeed:       feedURL,
		ImageURL:         p.images.Resolve(entry, metaImage, topic),
	}
	article.Tags = p.tagger.Classify(&article)

	return article, true
}

// backfillSummary extracts article text when the feed summary is missing or
// too short and extraction is enabled. Also returns the page's metadata image
// candidate for the resolution chain, even when the feed summary is kept.
func (p *Pipeline) backfillSummary(ctx context.Context, link, summary string) (text, metaImage string) {
	if p.extractor == nil || len(summary) >= p.minSummaryLength {
		return summary, ""
	}

	extracted, err := p.extractor.Extract(ctx, link)
	if err != nil {
		lgr.Printf("[DEBUG] summary backfill failed for %s: %v", link, err)
		return summary, ""
	}

	text = p.cleanText(extracted.Text)
	if len(text) <= len(summary) {
		return summary, extracted.Image
	}
	if len(text) > 500 {
		text = text[:500]
	}
	return text, extracted.Image
}

// cleanText strips HTML markup from feed-provided text and collapses whitespace
func (p *Pipeline) cleanText(s string) string {
	if s == "" {
		return ""
	}
	clean := p.sanitizer.Sanitize(s)
	clean = html.UnescapeString(clean)
	clean = p.whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// Retag re-runs tag classification over every stored article in place and
// persists the result. Idempotent for unchanged content.
func (p *Pipeline) Retag() error {
	p.store.Update(func(a *domain.Article) {
		a.Tags = p.tagger.Classify(a)
	})
	if err := p.cache.Save(p.store.Snapshot()); err != nil {
		return err
	}
	lgr.Printf("[INFO] retagged %d articles", p.store.Count())
	return nil
}

func feedDomain(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}
