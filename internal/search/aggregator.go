package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"stayscout/internal/intent"
	"stayscout/internal/models"
	"stayscout/internal/normalizer"
	"stayscout/internal/validators"
	"stayscout/pkg/logger"
)

// ProviderSearcher is the provider-facing contract of the aggregator. It
// never returns an error: a failed location yields an empty slice.
type ProviderSearcher interface {
	Search(ctx context.Context, location string, it *models.SearchIntent, filters *models.SearchFilters) []models.RawListing
}

// Aggregator runs the full query pipeline: sanitize, extract intent, fan
// out provider searches, normalize, sort and truncate.
type Aggregator struct {
	provider       ProviderSearcher
	extractor      *intent.Extractor
	normalizer     *normalizer.Normalizer
	validator      *validators.QueryValidator
	concurrency    int
	maxLocations   int
	resultLimit    int
	requestTimeout time.Duration
}

func NewAggregator(provider ProviderSearcher, extractor *intent.Extractor, concurrency, maxLocations, resultLimit int, requestTimeout time.Duration) *Aggregator {
	return &Aggregator{
		provider:       provider,
		extractor:      extractor,
		normalizer:     normalizer.New(),
		validator:      validators.NewQueryValidator(),
		concurrency:    concurrency,
		maxLocations:   maxLocations,
		resultLimit:    resultLimit,
		requestTimeout: requestTimeout,
	}
}

// Run executes one search. The response is always well-formed: zero
// results is a success, and only an empty query after sanitization
// produces success=false.
func (a *Aggregator) Run(ctx context.Context, rawQuery string, filters *models.SearchFilters) *models.SearchResponse {
	start := time.Now()

	query := a.validator.Sanitize(rawQuery)
	if err := a.validator.ValidateSearch(query); err != nil {
		return &models.SearchResponse{
			Success: false,
			Error:   err.Error(),
			Data: &models.SearchData{
				Properties:     []models.Property{},
				Query:          query,
				Locations:      []string{},
				ProcessingTime: elapsedSeconds(start),
			},
		}
	}

	it := a.extractor.Extract(query)
	locations := it.Locations
	if len(locations) > a.maxLocations {
		locations = locations[:a.maxLocations]
	}

	ctx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()

	var raws []models.RawListing
	if len(locations) == 1 {
		raws = a.provider.Search(ctx, locations[0], it, filters)
	} else {
		raws = a.fanOut(ctx, locations, it, filters)
	}

	properties := a.normalizer.NormalizeAll(raws)
	sortProperties(properties, it.SortBy)
	if len(properties) > a.resultLimit {
		properties = properties[:a.resultLimit]
	}

	return &models.SearchResponse{
		Success: true,
		Message: resultMessage(len(properties)),
		Data: &models.SearchData{
			Properties:     properties,
			Total:          len(properties),
			Query:          query,
			Locations:      locations,
			Criteria:       it.Criteria(),
			ProcessingTime: elapsedSeconds(start),
		},
	}
}

// fanOut dispatches one provider search per location through a bounded
// worker pool and merges results in completion order. A slow or failing
// location never cancels its siblings, and a request-level timeout returns
// whatever has completed so far.
func (a *Aggregator) fanOut(ctx context.Context, locations []string, it *models.SearchIntent, filters *models.SearchFilters) []models.RawListing {
	results := make(chan []models.RawListing, len(locations))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for _, location := range locations {
		wg.Add(1)
		go func(location string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.GlobalLogger.Errorf("Search worker panic recovered: location=%s, %v", location, r)
				}
			}()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			results <- a.provider.Search(ctx, location, it, filters)
		}(location)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []models.RawListing
	for {
		select {
		case batch, ok := <-results:
			if !ok {
				return merged
			}
			merged = append(merged, batch...)
		case <-ctx.Done():
			logger.GlobalLogger.Warnf("Aggregation deadline reached, returning %d listings from completed locations", len(merged))
			return merged
		}
	}
}

// sortProperties applies the intent's sort directive. The sort is stable so
// equal-priced listings keep their arrival order.
func sortProperties(properties []models.Property, sortBy string) {
	switch sortBy {
	case models.SortPriceAsc:
		sort.SliceStable(properties, func(i, j int) bool { return properties[i].Price < properties[j].Price })
	case models.SortPriceDesc:
		sort.SliceStable(properties, func(i, j int) bool { return properties[i].Price > properties[j].Price })
	}
}

func resultMessage(count int) string {
	if count == 0 {
		return "No properties found matching your search."
	}
	return fmt.Sprintf("Found %d properties matching your search.", count)
}

func elapsedSeconds(start time.Time) float64 {
	return math.Round(time.Since(start).Seconds()*100) / 100
}
