package openrouter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"stayscout/internal/models"
	"stayscout/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func TestNewEnhancerWithoutKeyIsDisabled(t *testing.T) {
	e := NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	assert.False(t, e.IsAvailable())
}

func TestEnhanceWithoutKeyLeavesResponseUntouched(t *testing.T) {
	e := NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	resp := &models.SearchResponse{
		Success: true,
		Data: &models.SearchData{
			Properties: []models.Property{{ID: "a1", Price: 100}},
			Total:      1,
		},
	}

	e.EnhanceSearchResults(context.Background(), "apartments in Miami", resp)

	assert.Empty(t, resp.Data.AISummary)
	assert.Empty(t, resp.Data.MatchReasons)
	assert.Equal(t, 1, resp.Data.Total)
}

func TestEnhancePropertyDetailsWithoutKeyLeavesDetailsUntouched(t *testing.T) {
	e := NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	details := &models.PropertyDetails{Property: models.Property{ID: "55501", Title: "Canal House"}}

	e.EnhancePropertyDetails(context.Background(), details)

	assert.Empty(t, details.AIHighlights)
	assert.Empty(t, details.BestFor)
	assert.Empty(t, details.LocalTips)
	assert.Equal(t, "Canal House", details.Title)
}

func TestGenerateSuggestionsFallbacks(t *testing.T) {
	e := NewEnhancer("", "", "anthropic/claude-3-haiku", 0)

	suggestions := e.GenerateSuggestions(context.Background(), "beach")
	assert.Len(t, suggestions, 5)
	assert.Contains(t, suggestions, "Find a place in San Francisco")

	suggestions = e.GenerateSuggestions(context.Background(), "x")
	assert.Len(t, suggestions, 5)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced json", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"padded", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}
