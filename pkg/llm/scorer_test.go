package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightside-news/brightside/pkg/config"
	"github.com/brightside-news/brightside/pkg/domain"
)

// fallbackStub records whether the fallback scorer was used
type fallbackStub struct{ called bool }

func (f *fallbackStub) Score(context.Context, string, string) (domain.DimensionScores, error) {
	f.called = true
	return domain.UniformDimensions(5), nil
}

func newChatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func testConfig(endpoint string) config.LLMConfig {
	return config.LLMConfig{
		Enabled:   true,
		Endpoint:  endpoint,
		APIKey:    "test-key",
		Model:     "test-model",
		MaxTokens: 200,
		Timeout:   5 * time.Second,
	}
}

func TestScorer_Score(t *testing.T) {
	ts := newChatServer(t, `{"emotional": 8, "triumph": 9, "social": 7, "novelty": 6, "actionable": 5}`, http.StatusOK)
	defer ts.Close()

	fallback := &fallbackStub{}
	s := NewScorer(testConfig(ts.URL), fallback)

	dims, err := s.Score(context.Background(), "Hero saves cat", "A brave rescue")
	require.NoError(t, err)
	assert.False(t, fallback.called)

	assert.InDelta(t, 8, dims.Emotional, 0.0001)
	assert.InDelta(t, 9, dims.Triumph, 0.0001)
	assert.InDelta(t, 7, dims.Composite, 0.0001, "composite is the dimension mean")
}

func TestScorer_Score_FencedJSON(t *testing.T) {
	content := "```json\n{\"emotional\": 6, \"triumph\": 6, \"social\": 6, \"novelty\": 6, \"actionable\": 6}\n```"
	ts := newChatServer(t, content, http.StatusOK)
	defer ts.Close()

	s := NewScorer(testConfig(ts.URL), &fallbackStub{})
	dims, err := s.Score(context.Background(), "title", "summary")
	require.NoError(t, err)
	assert.InDelta(t, 6, dims.Composite, 0.0001)
}

func TestScorer_Score_ClampsOutOfRange(t *testing.T) {
	ts := newChatServer(t, `{"emotional": 15, "triumph": 0, "social": 5, "novelty": 5, "actionable": 5}`, http.StatusOK)
	defer ts.Close()

	s := NewScorer(testConfig(ts.URL), &fallbackStub{})
	dims, err := s.Score(context.Background(), "title", "summary")
	require.NoError(t, err)
	assert.InDelta(t, 10, dims.Emotional, 0.0001)
	assert.InDelta(t, 1, dims.Triumph, 0.0001)
}

func TestScorer_Score_FallbackOnServerError(t *testing.T) {
	ts := newChatServer(t, "", http.StatusInternalServerError)
	defer ts.Close()

	fallback := &fallbackStub{}
	s := NewScorer(testConfig(ts.URL), fallback)

	dims, err := s.Score(context.Background(), "title", "summary")
	require.NoError(t, err, "model failure degrades to the heuristic, not an error")
	assert.True(t, fallback.called)
	assert.InDelta(t, 5, dims.Composite, 0.0001)
}

func TestScorer_Score_FallbackOnGarbageResponse(t *testing.T) {
	ts := newChatServer(t, "the article is quite inspiring", http.StatusOK)
	defer ts.Close()

	fallback := &fallbackStub{}
	s := NewScorer(testConfig(ts.URL), fallback)

	_, err := s.Score(context.Background(), "title", "summary")
	require.NoError(t, err)
	assert.True(t, fallback.called)
}
