package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stayscout/internal/resilience"
	"stayscout/pkg/cache"
	"stayscout/pkg/openrouter"
)

type HealthHandler struct {
	breaker  *resilience.CircuitBreaker
	enhancer *openrouter.Enhancer
}

func NewHealthHandler(breaker *resilience.CircuitBreaker, enhancer *openrouter.Enhancer) *HealthHandler {
	return &HealthHandler{breaker: breaker, enhancer: enhancer}
}

// Check reports liveness plus the state of each dependency. A degraded
// dependency does not fail the check; the provider breaker state and Redis
// reachability are informational.
func (h *HealthHandler) Check(c *gin.Context) {
	redisHealthy := false
	if cache.RedisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisHealthy = cache.RedisClient.Ping(ctx).Err() == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"api":        true,
			"provider":   h.breaker.State(),
			"redis":      redisHealthy,
			"openrouter": h.enhancer.IsAvailable(),
		},
	})
}
