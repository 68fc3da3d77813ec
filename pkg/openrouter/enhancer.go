package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"stayscout/internal/models"
	"stayscout/pkg/logger"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"

	summaryPrompt = `You are an assistant that enhances accommodation search results with helpful insights.

Given a user's search query and property results, return ONLY a valid JSON object with:
- "ai_summary": 1-2 sentences about the search results
- "match_reasons": array of 2-3 reasons why these properties fit the query

Return ONLY the JSON object, no other text.`

	detailsPrompt = `You are an assistant that enhances accommodation listing details with helpful insights.

Given a property, return ONLY a valid JSON object with:
- "ai_highlights": array of 3-4 key selling points
- "best_for": string describing who this property is ideal for
- "local_tips": array of 2-3 local area insights

Return ONLY the JSON object, no other text.`

	suggestionsPrompt = `Generate 5 helpful accommodation search suggestions based on the partial query.

Return ONLY a JSON array of strings. Each suggestion should be a complete, natural search query.

Examples:
Input: "beach"
Output: ["Beach house in Miami", "Beachfront apartment in California", "Beach villa with ocean view", "Beach cottage for families", "Luxury beach resort"]`
)

// Enhancer decorates search responses with LLM-generated insight through an
// OpenAI-compatible chat API. Every method degrades gracefully: a missing
// key, transport error, or malformed completion leaves the core response
// untouched.
type Enhancer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
}

func NewEnhancer(apiKey, baseURL, model string, timeout time.Duration) *Enhancer {
	if apiKey == "" {
		return &Enhancer{enabled: false}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL

	return &Enhancer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
		enabled: true,
	}
}

func (e *Enhancer) IsAvailable() bool {
	return e != nil && e.enabled
}

type searchInsight struct {
	AISummary    string   `json:"ai_summary"`
	MatchReasons []string `json:"match_reasons"`
}

// EnhanceSearchResults annotates the response data in place. The property
// list itself is never modified.
func (e *Enhancer) EnhanceSearchResults(ctx context.Context, query string, resp *models.SearchResponse) {
	if !e.IsAvailable() || resp == nil || resp.Data == nil {
		return
	}

	summary, err := json.Marshal(resp.Data.Properties)
	if err != nil {
		return
	}

	content, err := e.complete(ctx, summaryPrompt,
		fmt.Sprintf("Query: %s\n\nResults: %s", query, summary), 800)
	if err != nil {
		logger.GlobalLogger.Warnf("Search enhancement unavailable: %v", err)
		return
	}

	var insight searchInsight
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &insight); err != nil {
		logger.GlobalLogger.Warnf("Unparseable enhancement payload, skipping: %v", err)
		return
	}

	resp.Data.AISummary = insight.AISummary
	resp.Data.MatchReasons = insight.MatchReasons
}

type detailsInsight struct {
	AIHighlights []string `json:"ai_highlights"`
	BestFor      string   `json:"best_for"`
	LocalTips    []string `json:"local_tips"`
}

// EnhancePropertyDetails annotates one listing in place. The listing fields
// themselves are never modified.
func (e *Enhancer) EnhancePropertyDetails(ctx context.Context, details *models.PropertyDetails) {
	if !e.IsAvailable() || details == nil {
		return
	}

	body, err := json.Marshal(details.Property)
	if err != nil {
		return
	}

	content, err := e.complete(ctx, detailsPrompt, fmt.Sprintf("Property: %s", body), 600)
	if err != nil {
		logger.GlobalLogger.Warnf("Details enhancement unavailable: %v", err)
		return
	}

	var insight detailsInsight
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &insight); err != nil {
		logger.GlobalLogger.Warnf("Unparseable enhancement payload, skipping: %v", err)
		return
	}

	details.AIHighlights = insight.AIHighlights
	details.BestFor = insight.BestFor
	details.LocalTips = insight.LocalTips
}

// GenerateSuggestions returns up to five query completions for partial
// input. Canned suggestions cover the unavailable and short-input cases.
func (e *Enhancer) GenerateSuggestions(ctx context.Context, partialQuery string) []string {
	partialQuery = strings.TrimSpace(partialQuery)
	if !e.IsAvailable() || len(partialQuery) < 2 {
		return defaultSuggestions()
	}

	content, err := e.complete(ctx, suggestionsPrompt, partialQuery, 300)
	if err != nil {
		logger.GlobalLogger.Warnf("Suggestion generation unavailable: %v", err)
		return fallbackSuggestions(partialQuery)
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &suggestions); err != nil || len(suggestions) == 0 {
		return fallbackSuggestions(partialQuery)
	}
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

func (e *Enhancer) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   maxTokens,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func defaultSuggestions() []string {
	return []string{
		"Find a place in San Francisco",
		"Beach house in Miami",
		"Apartment in New York",
		"Villa with pool",
		"Pet-friendly accommodation",
	}
}

func fallbackSuggestions(partialQuery string) []string {
	return []string{
		partialQuery + " in San Francisco",
		partialQuery + " in Miami",
		partialQuery + " in New York",
		partialQuery + " with pool",
		partialQuery + " for families",
	}
}
