package domain

import "time"

// Article represents one admitted, classified news item
type Article struct {
	Title            string          `json:"title"`
	Link             string          `json:"link"`
	Summary          string          `json:"summary"`
	Published        time.Time       `json:"published"`
	SentimentScore   float64         `json:"sentiment_score"`
	InspirationScore float64         `json:"inspiration_score"`
	Dimensions       DimensionScores `json:"inspiration_dimensions"`
	Topic            string          `json:"topic_name"`
	TopicIcon        string          `json:"topic_icon_path,omitempty"`
	SourceIcon       string          `json:"source_icon_path,omitempty"`
	Tags             []Tag           `json:"tags,omitempty"`
	SourceName       string          `json:"source_name"`
	SourceFeed       string          `json:"source_feed"`
	ImageURL         string          `json:"image_url"`
}

// Inspirational reports whether the article qualifies for the top of its bucket
func (a *Article) Inspirational() bool {
	return a.InspirationScore >= 8.0
}

// Tag is a short descriptive label attached to an article
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// DimensionScores holds the named inspiration sub-scores, each in [1, 10]
type DimensionScores struct {
	Emotional  float64 `json:"emotional"`
	Triumph    float64 `json:"triumph"`
	Social     float64 `json:"social"`
	Novelty    float64 `json:"novelty"`
	Actionable float64 `json:"actionable"`
	Composite  float64 `json:"composite"`
}

// UniformDimensions returns dimensions with every sub-score equal to the composite
func UniformDimensions(composite float64) DimensionScores {
	return DimensionScores{
		Emotional:  composite,
		Triumph:    composite,
		Social:     composite,
		Novelty:    composite,
		Actionable: composite,
		Composite:  composite,
	}
}
