package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayscout/internal/geo"
	"stayscout/internal/intent"
	"stayscout/internal/models"
	"stayscout/internal/resilience"
	"stayscout/internal/search"
	"stayscout/pkg/logger"
	"stayscout/pkg/openrouter"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitLogger()
	os.Exit(m.Run())
}

type fixedProvider struct {
	listings map[string][]models.RawListing
}

func (p *fixedProvider) Search(ctx context.Context, location string, it *models.SearchIntent, filters *models.SearchFilters) []models.RawListing {
	return p.listings[location]
}

func newSearchRouter(p search.ProviderSearcher) *gin.Engine {
	ex := intent.NewExtractor("San Francisco")
	agg := search.NewAggregator(p, ex, 5, 10, 5, 2*time.Second)
	svc := search.NewService(agg, false, 0)
	enhancer := openrouter.NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	h := NewSearchHandler(svc, enhancer)

	r := gin.New()
	r.POST("/api/v1/search", h.Search)
	r.POST("/api/v1/suggestions", h.Suggestions)
	return r
}

func TestSearchEndpoint(t *testing.T) {
	provider := &fixedProvider{listings: map[string][]models.RawListing{
		"Miami": {{
			Data: map[string]interface{}{
				"listing": map[string]interface{}{
					"id":    "a1",
					"name":  "Harbor Loft",
					"price": float64(150),
				},
			},
		}},
	}}
	router := newSearchRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader(`{"query":"apartments in Miami"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, []string{"Miami"}, resp.Data.Locations)
	assert.Equal(t, "Harbor Loft", resp.Data.Properties[0].Title)
}

func TestSearchEndpointRejectsMissingQuery(t *testing.T) {
	router := newSearchRouter(&fixedProvider{})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"no query field", `{}`},
		{"blank query", `{"query":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.SearchResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestSearchEndpointZeroResults(t *testing.T) {
	router := newSearchRouter(&fixedProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader(`{"query":"apartments in Miami"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Data.Total)
}

func TestSuggestionsEndpoint(t *testing.T) {
	router := newSearchRouter(&fixedProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions",
		strings.NewReader(`{"partial_query":"beach"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool     `json:"success"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Suggestions, 5)
}

func TestSuggestionsEndpointRejectsMissingInput(t *testing.T) {
	router := newSearchRouter(&fixedProvider{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/suggestions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationsEndpoint(t *testing.T) {
	h := NewLocationsHandler(geo.NewResolver())
	r := gin.New()
	r.GET("/api/v1/locations", h.List)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool     `json:"success"`
		Locations []string `json:"locations"`
		Total     int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Locations)
	assert.Equal(t, len(resp.Locations), resp.Total)
	assert.Contains(t, resp.Locations, "San Francisco")
}

func TestHealthEndpoint(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(5, time.Minute)
	enhancer := openrouter.NewEnhancer("", "", "anthropic/claude-3-haiku", 0)
	h := NewHealthHandler(breaker, enhancer)
	r := gin.New()
	r.GET("/health", h.Check)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string `json:"status"`
		Services struct {
			API        bool   `json:"api"`
			Provider   string `json:"provider"`
			Redis      bool   `json:"redis"`
			OpenRouter bool   `json:"openrouter"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.True(t, resp.Services.API)
	assert.Equal(t, "CLOSED", resp.Services.Provider)
	assert.False(t, resp.Services.Redis)
	assert.False(t, resp.Services.OpenRouter)
}
