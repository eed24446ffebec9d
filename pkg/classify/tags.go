package classify

import (
	"strings"

	"github.com/brightside-news/brightside/pkg/domain"
)

// MaxTags caps the number of tags per article
const MaxTags = 2

// tagRule fires when any of its phrases appears as a substring of the
// lowercased "title summary" text. A non-empty topicContains additionally
// requires the article's topic to contain that substring.
type tagRule struct {
	tag           domain.Tag
	phrases       []string
	topicContains string
}

// rules are evaluated in priority order
var tagRules = []tagRule{
	{
		tag:     domain.Tag{Name: "Acts of Kindness", Color: "#e8717d", Icon: "heart"},
		phrases: []string{"kindness", "donated", "donation", "charity", "volunteer", "helped a", "good samaritan", "giving back"},
	},
	{
		tag:     domain.Tag{Name: "Rescue", Color: "#f2a154", Icon: "lifebuoy"},
		phrases: []string{"rescued", "rescue", "saved from", "pulled from", "firefighter"},
	},
	{
		tag:     domain.Tag{Name: "Breakthrough", Color: "#4d96ff", Icon: "bulb"},
		phrases: []string{"breakthrough", "discovery", "first ever", "first-ever", "milestone", "invented", "innovation"},
	},
	{
		tag:     domain.Tag{Name: "Triumph", Color: "#9b5de5", Icon: "trophy"},
		phrases: []string{"overcame", "triumph", "against all odds", "beat the odds", "defied", "comeback"},
	},
	{
		tag:           domain.Tag{Name: "Calming", Color: "#6bcb77", Icon: "leaf"},
		phrases:       []string{"meditation", "mindfulness", "yoga", "wellness", "relaxation", "calm"},
		topicContains: "health",
	},
	{
		tag:     domain.Tag{Name: "Heartwarming", Color: "#ff6b9d", Icon: "sparkles"},
		phrases: []string{"heartwarming", "adorable", "reunited", "reunion", "puppy", "kitten", "surprise for"},
	},
	{
		tag:     domain.Tag{Name: "Community", Color: "#00b8a9", Icon: "people"},
		phrases: []string{"community", "neighbors", "neighbours", "came together", "local residents"},
	},
}

// inspiringTag is the fallback applied to highly scored articles
var inspiringTag = domain.Tag{Name: "Inspiring", Color: "#ffd166", Icon: "star"}

// Tagger assigns up to MaxTags descriptive tags to classified articles
type Tagger struct {
	rules []tagRule
}

// NewTagger creates a tagger over the fixed rule table
func NewTagger() *Tagger {
	return &Tagger{rules: tagRules}
}

// Classify returns the ordered tag list for an article. Idempotent: the result
// depends only on title, summary, topic and inspiration score.
func (t *Tagger) Classify(article *domain.Article) []domain.Tag {
	text := strings.ToLower(article.Title + " " + article.Summary)

	var tags []domain.Tag
	for _, rule := range t.rules {
		if rule.topicContains != "" && !strings.Contains(article.Topic, rule.topicContains) {
			continue
		}
		for _, phrase := range rule.phrases {
			if strings.Contains(text, phrase) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	// fallback for highly scored articles with no rule hits
	if len(tags) == 0 && article.InspirationScore >= 8 {
		for _, word := range strongPositiveWords {
			if strings.Contains(text, word) {
				tags = append(tags, inspiringTag)
				break
			}
		}
	}

	return capTags(dedupeTags(tags))
}

// dedupeTags removes duplicates by name preserving first-seen order
func dedupeTags(tags []domain.Tag) []domain.Tag {
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		if seen[tag.Name] {
			continue
		}
		seen[tag.Name] = true
		out = append(out, tag)
	}
	return out
}

func capTags(tags []domain.Tag) []domain.Tag {
	if len(tags) > MaxTags {
		return tags[:MaxTags]
	}
	return tags
}
