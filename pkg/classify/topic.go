package classify

import (
	"regexp"
	"strings"
)

// IconLookup resolves a topic annotation to an icon reference, "" when unknown
type IconLookup interface {
	Lookup(topic string) string
}

// TopicClassifier assigns one topic and an icon reference by keyword scoring
type TopicClassifier struct {
	icons    IconLookup
	patterns []topicPatterns
}

type topicPatterns struct {
	name     string
	matchers []*regexp.Regexp
}

// NewTopicClassifier creates a classifier over the fixed topic table
func NewTopicClassifier(icons IconLookup) *TopicClassifier {
	c := &TopicClassifier{icons: icons}
	for _, rule := range topicRules {
		c.patterns = append(c.patterns, topicPatterns{
			name:     rule.name,
			matchers: compileWordPatterns(rule.keywords),
		})
	}
	return c
}

// Classify returns the best-matching topic and its icon. The topic with the
// strictly highest whole-word keyword count wins; on a tie the first declared
// topic reaching the maximum is kept. Zero matches fall back to the general
// topic with the "good news" icon.
func (c *TopicClassifier) Classify(title, summary string) (topic, icon string) {
	text := strings.ToLower(title + " " + summary)

	best, bestCount := TopicGeneral, 0
	for _, tp := range c.patterns {
		count := 0
		for _, m := range tp.matchers {
			count += len(m.FindAllStringIndex(text, -1))
		}
		if count > bestCount {
			best, bestCount = tp.name, count
		}
	}

	if bestCount == 0 {
		return TopicGeneral, c.lookupIcon("good news")
	}
	return best, c.lookupIcon(best)
}

func (c *TopicClassifier) lookupIcon(topic string) string {
	if c.icons == nil {
		return ""
	}
	return c.icons.Lookup(topic)
}
