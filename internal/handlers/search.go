package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stayscout/internal/models"
	"stayscout/internal/search"
	"stayscout/pkg/cache"
	"stayscout/pkg/logger"
	"stayscout/pkg/metrics"
	"stayscout/pkg/openrouter"
)

// suggestionsCacheTTL bounds staleness of cached completions.
const suggestionsCacheTTL = 10 * time.Minute

type SearchHandler struct {
	service  *search.Service
	enhancer *openrouter.Enhancer
}

func NewSearchHandler(service *search.Service, enhancer *openrouter.Enhancer) *SearchHandler {
	return &SearchHandler{service: service, enhancer: enhancer}
}

// Search processes a natural language accommodation query.
func (h *SearchHandler) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.SearchResponse{
			Success: false,
			Error:   "Query is required",
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, models.SearchResponse{
			Success: false,
			Error:   "Query is required",
		})
		return
	}

	resp := h.service.Search(c.Request.Context(), &req)
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	if h.enhancer.IsAvailable() {
		h.enhancer.EnhanceSearchResults(c.Request.Context(), req.Query, resp)
	}

	c.JSON(http.StatusOK, resp)
}

// Suggestions returns query completions for partial input. Generated
// suggestions are cached per normalized partial query.
func (h *SearchHandler) Suggestions(c *gin.Context) {
	var req models.SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PartialQuery) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Partial query is required",
		})
		return
	}

	key := cache.SuggestionsKey(req.PartialQuery)
	if cache.RedisClient != nil {
		var cached []string
		if err := cache.Get(c.Request.Context(), key, &cached); err == nil && len(cached) > 0 {
			metrics.CacheHitsTotal.Inc()
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"suggestions": cached,
			})
			return
		}
		metrics.CacheMissesTotal.Inc()
	}

	suggestions := h.enhancer.GenerateSuggestions(c.Request.Context(), req.PartialQuery)

	if cache.RedisClient != nil && len(suggestions) > 0 {
		if err := cache.Set(c.Request.Context(), key, suggestions, suggestionsCacheTTL); err != nil {
			logger.GlobalLogger.Warnf("Failed to cache suggestions: key=%s, %v", key, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"suggestions": suggestions,
	})
}
