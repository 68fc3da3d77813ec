package search

import (
	"context"
	"errors"
	"time"

	"stayscout/internal/models"
	"stayscout/pkg/cache"
	"stayscout/pkg/logger"
	"stayscout/pkg/metrics"
)

// Service wraps the aggregator with a best-effort Redis cache. Cache
// failures never fail a search.
type Service struct {
	agg          *Aggregator
	cacheEnabled bool
	cacheTTL     time.Duration
}

func NewService(agg *Aggregator, cacheEnabled bool, cacheTTL time.Duration) *Service {
	return &Service{
		agg:          agg,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
	}
}

func (s *Service) Search(ctx context.Context, req *models.SearchRequest) *models.SearchResponse {
	key := cache.SearchKey(req.Query, req.Filters)

	if s.cacheEnabled {
		var cached models.SearchResponse
		err := cache.Get(ctx, key, &cached)
		if err == nil && cached.Data != nil {
			metrics.CacheHitsTotal.Inc()
			logger.GlobalLogger.Debugf("Cache hit: key=%s", key)
			return &cached
		}
		// evict entries that no longer decode so they stop costing a
		// round trip on every request
		var cacheErr *cache.CacheError
		if errors.As(err, &cacheErr) && cacheErr.Operation == "unmarshal" {
			if delErr := cache.Delete(ctx, key); delErr != nil {
				logger.GlobalLogger.Warnf("Failed to evict corrupt cache entry: key=%s, %v", key, delErr)
			}
		}
		metrics.CacheMissesTotal.Inc()
	}

	resp := s.agg.Run(ctx, req.Query, req.Filters)

	// Only successful responses with results are worth keeping.
	if s.cacheEnabled && resp.Success && resp.Data != nil && resp.Data.Total > 0 {
		if err := cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			logger.GlobalLogger.Warnf("Failed to cache search response: key=%s, %v", key, err)
		}
	}

	return resp
}
