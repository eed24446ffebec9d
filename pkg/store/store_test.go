package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightside-news/brightside/pkg/domain"
)

func TestStore_Add(t *testing.T) {
	s := NewStore()

	a := domain.Article{Title: "First", Link: "https://example.com/1", Topic: "science"}
	assert.True(t, s.Add(a))
	assert.False(t, s.Add(a), "same link in the same topic is rejected")
	assert.Equal(t, 1, s.Count())

	b := a
	b.Topic = "general"
	assert.True(t, s.Add(b), "same link in another topic is a separate bucket entry")
	assert.Equal(t, 2, s.Count())
}

func TestStore_SortBuckets(t *testing.T) {
	s := NewStore()
	now := time.Now()

	s.Add(domain.Article{Title: "old low", Link: "l1", Topic: "science", InspirationScore: 5.0, Published: now.Add(-2 * time.Hour)})
	s.Add(domain.Article{Title: "inspirational", Link: "l2", Topic: "science", InspirationScore: 8.5, Published: now.Add(-3 * time.Hour)})
	s.Add(domain.Article{Title: "new low", Link: "l3", Topic: "science", InspirationScore: 5.0, Published: now})
	s.Add(domain.Article{Title: "high", Link: "l4", Topic: "science", InspirationScore: 7.0, Published: now.Add(-time.Hour)})

	s.SortBuckets()

	got := s.Articles("science", 0)
	require.Len(t, got, 4)
	assert.Equal(t, "inspirational", got[0].Title, "inspirational articles lead regardless of age")
	assert.Equal(t, "high", got[1].Title)
	assert.Equal(t, "new low", got[2].Title, "equal scores fall back to recency")
	assert.Equal(t, "old low", got[3].Title)
}

func TestStore_Articles(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "s1", Link: "l1", Topic: "science", InspirationScore: 6})
	s.Add(domain.Article{Title: "g1", Link: "l2", Topic: "general", InspirationScore: 9})

	assert.Len(t, s.Articles("science", 0), 1)
	assert.Empty(t, s.Articles("unknown", 0))

	all := s.Articles("", 0)
	require.Len(t, all, 2)
	assert.Equal(t, "g1", all[0].Title, "flattened view is globally sorted")

	assert.Len(t, s.Articles("", 1), 1)
}

func TestStore_Topics(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "s1", Link: "l1", Topic: "science", TopicIcon: "1F52C"})
	s.Add(domain.Article{Title: "s2", Link: "l2", Topic: "science", TopicIcon: "1F52C"})
	s.Add(domain.Article{Title: "g1", Link: "l3", Topic: "general"})

	topics := s.Topics()
	require.Len(t, topics, 2)
	assert.Equal(t, "general", topics[0].Name, "topics sorted by name")
	assert.Equal(t, TopicInfo{Name: "science", Icon: "1F52C", Count: 2}, topics[1])
}

func TestStore_RemoveLink(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "keep", Link: "l1", Topic: "science"})
	s.Add(domain.Article{Title: "drop", Link: "l2", Topic: "science"})

	assert.True(t, s.RemoveLink("l2"))
	assert.False(t, s.RemoveLink("l2"), "already gone")
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, "keep", s.Articles("science", 0)[0].Title)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "original", Link: "l1", Topic: "science"})
	s.SetLastFetched(time.Now())

	snap := s.Snapshot()
	snap.Articles["science"][0].Title = "mutated"

	assert.Equal(t, "original", s.Articles("science", 0)[0].Title, "snapshot mutation must not leak into the store")
	assert.False(t, snap.LastFetched.IsZero())
}

func TestStore_RestoreRoundtrip(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "a", Link: "l1", Topic: "science"})
	s.SetLastFetched(time.Now())

	restored := NewStore()
	restored.Restore(s.Snapshot())

	assert.Equal(t, s.Count(), restored.Count())
	assert.True(t, s.LastFetched().Equal(restored.LastFetched()))
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	s.Add(domain.Article{Title: "a", Link: "l1", Topic: "science"})
	s.Add(domain.Article{Title: "b", Link: "l2", Topic: "general"})

	s.Update(func(a *domain.Article) { a.Tags = []domain.Tag{{Name: "Touched"}} })

	for _, a := range s.Articles("", 0) {
		require.Len(t, a.Tags, 1)
		assert.Equal(t, "Touched", a.Tags[0].Name)
	}
}
