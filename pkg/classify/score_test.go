package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicScorer_Score(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		summary  string
		compound float64
		want     float64
	}{
		{
			name:     "neutral text stays at midpoint",
			title:    "Plain title",
			summary:  "plain summary",
			compound: 0,
			want:     5.0,
		},
		{
			name:     "empty text yields midpoint",
			title:    "",
			summary:  "",
			compound: 0.9, // must be ignored for empty text
			want:     5.0,
		},
		{
			name:     "compound shifts the base",
			title:    "Good story",
			summary:  "really nice",
			compound: 0.6,
			want:     8.0,
		},
		{
			name:     "high-impact keyword adds one point",
			title:    "Hero helps out",
			summary:  "a quiet act",
			compound: 0,
			want:     6.0,
		},
		{
			name:     "repeated keyword counts once",
			title:    "Hero meets hero",
			summary:  "hero everywhere",
			compound: 0,
			want:     6.0,
		},
		{
			name:     "distinct keywords stack",
			title:    "Hero rescued dog",
			summary:  "the rescued pup was saved in a breakthrough triumph after the owner overcame fear",
			compound: 0,
			want:     10.0, // 5 + 6 distinct hits, clamped
		},
		{
			name:     "very negative clamps to floor",
			title:    "Sad story",
			summary:  "very sad",
			compound: -1,
			want:     1.0,
		},
		{
			name:     "rounded to one decimal",
			title:    "Mild story",
			summary:  "mildly nice",
			compound: 0.123,
			want:     5.6, // 5 + 0.615
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHeuristicScorer(stubAnalyzer{score: tt.compound})
			dims, err := s.Score(context.Background(), tt.title, tt.summary)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, dims.Composite, 0.0001)
		})
	}
}

func TestHeuristicScorer_UniformDimensions(t *testing.T) {
	s := NewHeuristicScorer(stubAnalyzer{score: 0.4})
	dims, err := s.Score(context.Background(), "Nice day", "all good")
	require.NoError(t, err)

	assert.Equal(t, dims.Composite, dims.Emotional)
	assert.Equal(t, dims.Composite, dims.Triumph)
	assert.Equal(t, dims.Composite, dims.Social)
	assert.Equal(t, dims.Composite, dims.Novelty)
	assert.Equal(t, dims.Composite, dims.Actionable)
}
