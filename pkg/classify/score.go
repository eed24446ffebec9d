package classify

import (
	"context"
	"math"
	"regexp"

	"github.com/brightside-news/brightside/pkg/domain"
	"github.com/brightside-news/brightside/pkg/sentiment"
)

// Scorer computes inspiration dimension scores for an article's text.
// The heuristic implementation is the default; alternate implementations
// (e.g. LLM-backed) plug in behind this interface.
type Scorer interface {
	Score(ctx context.Context, title, summary string) (domain.DimensionScores, error)
}

// HeuristicScorer derives the composite from sentiment plus high-impact
// keyword hits. All dimensions are set equal to the composite.
type HeuristicScorer struct {
	analyzer   sentiment.Analyzer
	highImpact []*regexp.Regexp
}

// NewHeuristicScorer creates the default scorer
func NewHeuristicScorer(analyzer sentiment.Analyzer) *HeuristicScorer {
	return &HeuristicScorer{
		analyzer:   analyzer,
		highImpact: compileWordPatterns(highImpactKeywords),
	}
}

// Score computes the composite: base 5 shifted by compound*5, plus 1.0 per
// distinct high-impact keyword present, clamped to [1, 10] and rounded to one
// decimal. Empty text yields the midpoint 5.
func (s *HeuristicScorer) Score(_ context.Context, title, summary string) (domain.DimensionScores, error) {
	combined := title + ". " + summary

	score := 5.0
	if title != "" || summary != "" {
		score += s.analyzer.Compound(combined) * 5
	}

	for _, p := range s.highImpact {
		if containsAny([]*regexp.Regexp{p}, combined) {
			score++
		}
	}

	score = clamp(score, 1, 10)
	score = math.Round(score*10) / 10

	return domain.UniformDimensions(score), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
