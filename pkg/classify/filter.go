// Package classify decides which feed entries are worth keeping and how to
// label them: admissibility filtering, topic assignment, descriptive tags and
// the inspiration score.
package classify

import (
	"regexp"
	"strings"

	"github.com/brightside-news/brightside/pkg/sentiment"
)

// Filter decides whether a fetched entry is admissible
type Filter struct {
	analyzer  sentiment.Analyzer
	threshold float64
	negative  []*regexp.Regexp
	positive  []*regexp.Regexp
}

// NewFilter creates a filter with the given sentiment analyzer and positive
// threshold. Keyword lists are fixed at build time.
func NewFilter(analyzer sentiment.Analyzer, threshold float64) *Filter {
	return &Filter{
		analyzer:  analyzer,
		threshold: threshold,
		negative:  compileWordPatterns(negativeKeywords),
		positive:  compileWordPatterns(positiveKeywords),
	}
}

// Admissible reports whether the entry passes keyword and sentiment filtering.
// The returned score is the compound sentiment of "title. summary" and is
// meaningful even for rejected entries.
func (f *Filter) Admissible(title, summary string) (ok bool, score float64) {
	if containsAny(f.negative, title) || containsAny(f.negative, summary) {
		return false, 0
	}

	combined := title + ". " + summary
	score = f.analyzer.Compound(combined)

	if score > f.threshold {
		return true, score
	}
	if containsAny(f.positive, combined) {
		return true, score
	}
	return false, score
}

// compileWordPatterns builds case-insensitive whole-word matchers, so that
// "election" matches but "selection" does not
func compileWordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
	}
	return patterns
}

func containsAny(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
