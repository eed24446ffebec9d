package store

import (
	"sort"
	"sync"
	"time"

	"github.com/brightside-news/brightside/pkg/domain"
)

// Store is the in-memory topic-keyed article store. It is written by the
// pipeline worker and read by request handlers; all access goes through the
// lock.
type Store struct {
	mu          sync.RWMutex
	lastFetched time.Time
	articles    map[string][]domain.Article
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{articles: make(map[string][]domain.Article)}
}

// TopicInfo describes one topic bucket for the display layer
type TopicInfo struct {
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count"`
}

// Restore replaces the store content from a persisted snapshot
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetched = snap.LastFetched
	s.articles = make(map[string][]domain.Article, len(snap.Articles))
	for topic, articles := range snap.Articles {
		s.articles[topic] = append([]domain.Article(nil), articles...)
	}
}

// Snapshot returns a deep-enough copy for persistence
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]domain.Article, len(s.articles))
	for topic, articles := range s.articles {
		out[topic] = append([]domain.Article(nil), articles...)
	}
	return Snapshot{LastFetched: s.lastFetched, Articles: out}
}

// Add inserts an article into its topic bucket unless the bucket already has
// an article with the same link. Reports whether the article was inserted.
func (s *Store) Add(article domain.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.articles[article.Topic] {
		if existing.Link == article.Link {
			return false
		}
	}
	s.articles[article.Topic] = append(s.articles[article.Topic], article)
	return true
}

// SetLastFetched records the completion time of a pipeline run
func (s *Store) SetLastFetched(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetched = t
}

// LastFetched returns the completion time of the last pipeline run
func (s *Store) LastFetched() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetched
}

// SortBuckets orders every topic bucket by (inspirational desc,
// inspiration_score desc, published desc)
func (s *Store) SortBuckets() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, articles := range s.articles {
		sort.SliceStable(articles, func(i, j int) bool {
			a, b := &articles[i], &articles[j]
			if a.Inspirational() != b.Inspirational() {
				return a.Inspirational()
			}
			if a.InspirationScore != b.InspirationScore {
				return a.InspirationScore > b.InspirationScore
			}
			return a.Published.After(b.Published)
		})
	}
}

// Articles returns the articles of one topic, or the flattened list of all
// topics when topic is empty. The flattened list keeps bucket order within a
// topic and orders topics by declaration of the map keys sorted for
// determinism. limit <= 0 means no limit.
func (s *Store) Articles(topic string, limit int) []domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Article
	if topic != "" {
		out = append(out, s.articles[topic]...)
	} else {
		topics := make([]string, 0, len(s.articles))
		for t := range s.articles {
			topics = append(topics, t)
		}
		sort.Strings(topics)
		for _, t := range topics {
			out = append(out, s.articles[t]...)
		}
		// global view re-sorted by the same bucket ordering
		sort.SliceStable(out, func(i, j int) bool {
			a, b := &out[i], &out[j]
			if a.Inspirational() != b.Inspirational() {
				return a.Inspirational()
			}
			if a.InspirationScore != b.InspirationScore {
				return a.InspirationScore > b.InspirationScore
			}
			return a.Published.After(b.Published)
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Topics lists non-empty topic buckets with counts, sorted by name
func (s *Store) Topics() []TopicInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TopicInfo, 0, len(s.articles))
	for topic, articles := range s.articles {
		if len(articles) == 0 {
			continue
		}
		info := TopicInfo{Name: topic, Count: len(articles)}
		// buckets are uniform in icon; take it from the first article
		info.Icon = articles[0].TopicIcon
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RemoveLink deletes an article by link from whichever bucket holds it.
// Reports whether anything was removed.
func (s *Store) RemoveLink(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for topic, articles := range s.articles {
		kept := articles[:0]
		for _, a := range articles {
			if a.Link == link {
				removed = true
				continue
			}
			kept = append(kept, a)
		}
		s.articles[topic] = kept
	}
	return removed
}

// ReplaceArticles swaps in a new topic map, used by the deduplication pass
func (s *Store) ReplaceArticles(articles map[string][]domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
}

// Update applies fn to every article in place, used by the tag backfill pass
func (s *Store) Update(fn func(a *domain.Article)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, articles := range s.articles {
		for i := range articles {
			fn(&articles[i])
		}
	}
}

// Count returns the total number of stored articles
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, articles := range s.articles {
		n += len(articles)
	}
	return n
}
