package pipeline

import (
	"crypto/md5" //nolint:gosec // fingerprinting, not security
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/brightside-news/brightside/pkg/domain"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// normalizeText lowercases, strips punctuation and collapses whitespace.
// Go's \w is ASCII-only, so non-ASCII letters drop out of the signature;
// the 100-byte summary truncation therefore never splits a rune.
func normalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// contentHash fingerprints an article by normalized title plus the first 100
// characters of the normalized summary
func contentHash(a *domain.Article) string {
	title := normalizeText(a.Title)
	summary := normalizeText(a.Summary)
	if len(summary) > 100 {
		summary = summary[:100]
	}
	sum := md5.Sum([]byte(title + summary)) //nolint:gosec // fingerprinting, not security
	return hex.EncodeToString(sum[:])
}

// kept tracks the currently winning copy of a content signature
type kept struct {
	topic string
	index int // position in the source bucket
}

// Deduplicate removes cross-topic duplicates, keeping exactly one article per
// distinct content signature: the one with the strictly highest sentiment
// score, regardless of arrival order. Single forward pass over all articles;
// topics are visited in sorted order for determinism.
func Deduplicate(articlesByTopic map[string][]domain.Article) map[string][]domain.Article {
	topics := make([]string, 0, len(articlesByTopic))
	for topic := range articlesByTopic {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	winners := make(map[string]kept)
	removed := 0

	for _, topic := range topics {
		articles := articlesByTopic[topic]
		for i := range articles {
			hash := contentHash(&articles[i])

			current, seen := winners[hash]
			if !seen {
				winners[hash] = kept{topic: topic, index: i}
				continue
			}

			removed++
			// score governs which copy survives, not arrival order
			if articles[i].SentimentScore > articlesByTopic[current.topic][current.index].SentimentScore {
				winners[hash] = kept{topic: topic, index: i}
			}
		}
	}

	// rebuild buckets with only the winning copies, preserving per-topic order
	winnerSet := make(map[kept]bool, len(winners))
	for _, w := range winners {
		winnerSet[w] = true
	}

	result := make(map[string][]domain.Article, len(articlesByTopic))
	for _, topic := range topics {
		bucket := make([]domain.Article, 0, len(articlesByTopic[topic]))
		for i, article := range articlesByTopic[topic] {
			if winnerSet[kept{topic: topic, index: i}] {
				bucket = append(bucket, article)
			}
		}
		result[topic] = bucket
	}

	if removed > 0 {
		lgr.Printf("[INFO] deduplication removed %d duplicate articles", removed)
	}
	return result
}

// RunDedup applies the deduplication pass to the store and persists the result
func (p *Pipeline) RunDedup() error {
	snap := p.store.Snapshot()
	p.store.ReplaceArticles(Deduplicate(snap.Articles))
	return p.cache.Save(p.store.Snapshot())
}
