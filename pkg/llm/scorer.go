// Package llm provides an OpenAI-backed inspiration scorer. It implements the
// classify.Scorer interface; the heuristic scorer remains the default and the
// fallback when the model call fails.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/brightside-news/brightside/pkg/classify"
	"github.com/brightside-news/brightside/pkg/config"
	"github.com/brightside-news/brightside/pkg/domain"
)

// Scorer rates articles with an LLM, falling back to the heuristic scorer
type Scorer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	fallback  classify.Scorer
}

// NewScorer creates an LLM scorer with the given fallback
func NewScorer(cfg config.LLMConfig, fallback classify.Scorer) *Scorer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Scorer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
		fallback:  fallback,
	}
}

const defaultSystemPrompt = `You rate news articles for how inspiring they are.
Respond with a single JSON object:
{"emotional": n, "triumph": n, "social": n, "novelty": n, "actionable": n}
where each n is a number from 1 to 10:
- emotional: emotional resonance of the story
- triumph: overcoming adversity or achieving against odds
- social: positive community or societal impact
- novelty: how surprising or first-of-its-kind the story is
- actionable: whether a reader could act on or replicate it
Respond with the JSON object only, no prose.`

type dimensionsResponse struct {
	Emotional  float64 `json:"emotional"`
	Triumph    float64 `json:"triumph"`
	Social     float64 `json:"social"`
	Novelty    float64 `json:"novelty"`
	Actionable float64 `json:"actionable"`
}

// Score rates the article text. Any model or parse failure falls back to the
// heuristic scorer so the pipeline never stalls on the LLM.
func (s *Scorer) Score(ctx context.Context, title, summary string) (domain.DimensionScores, error) {
	dims, err := s.scoreLLM(ctx, title, summary)
	if err != nil {
		lgr.Printf("[WARN] llm scoring failed, using heuristic fallback: %v", err)
		return s.fallback.Score(ctx, title, summary)
	}
	return dims, nil
}

func (s *Scorer) scoreLLM(ctx context.Context, title, summary string) (domain.DimensionScores, error) {
	prompt := fmt.Sprintf("Title: %s\n\nSummary: %s", title, summary)

	req := openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Temperature: float32(s.config.Temperature),
		MaxTokens:   s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if s.config.UseJSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.DimensionScores{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.DimensionScores{}, fmt.Errorf("empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed dimensionsResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return domain.DimensionScores{}, fmt.Errorf("parse response %q: %w", content, err)
	}

	dims := domain.DimensionScores{
		Emotional:  clampDim(parsed.Emotional),
		Triumph:    clampDim(parsed.Triumph),
		Social:     clampDim(parsed.Social),
		Novelty:    clampDim(parsed.Novelty),
		Actionable: clampDim(parsed.Actionable),
	}
	dims.Composite = clampDim((dims.Emotional + dims.Triumph + dims.Social + dims.Novelty + dims.Actionable) / 5)
	return dims, nil
}

func clampDim(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
