// Package sentiment wraps the VADER model behind a small deterministic interface.
package sentiment

import "github.com/jonreiter/govader"

// Analyzer produces a compound sentiment score in [-1, 1] for a text.
// Implementations must be deterministic and make no network calls.
type Analyzer interface {
	Compound(text string) float64
}

// VADER scores text with the VADER lexicon model
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER creates a VADER analyzer with the bundled lexicon
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound returns the VADER compound score for the text, 0 for empty input
func (v *VADER) Compound(text string) float64 {
	if text == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}
