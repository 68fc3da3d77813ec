package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stayscout/internal/geo"
	"stayscout/internal/models"
	"stayscout/internal/resilience"
	"stayscout/pkg/logger"
	"stayscout/pkg/metrics"
)

const maxLocationLen = 100

// Client searches the external listings provider for one location at a
// time. Transient provider failures never escape this layer: the caller
// sees an empty result instead.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
	resolver   *geo.Resolver
	breaker    *resilience.CircuitBreaker
	plan       resilience.RetryPlan
}

// NewClient creates a provider client. The breaker instance is injected so
// one breaker can guard the provider path across all fan-out workers.
func NewClient(baseURL, apiKey, apiHost string, timeout time.Duration, resolver *geo.Resolver, breaker *resilience.CircuitBreaker, plan resilience.RetryPlan) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		apiHost: apiHost,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		resolver: resolver,
		breaker:  breaker,
		plan:     plan,
	}
}

// BreakerState exposes the provider path health for the health endpoint.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// Search returns the raw listings for one location. Invalid input yields an
// empty result without any external call; provider errors are logged and
// also yield an empty result, so "no listings" and "provider down" look the
// same to the aggregator.
func (c *Client) Search(ctx context.Context, location string, intent *models.SearchIntent, filters *models.SearchFilters) []models.RawListing {
	if !validLocation(location) {
		logger.GlobalLogger.Warnf("Skipping provider call for invalid location %q", location)
		return nil
	}

	areaID := c.resolver.Resolve(location)
	requestURL := c.buildRequestURL(areaID, intent, filters)

	var listings []models.RawListing
	start := time.Now()
	err := resilience.Retry(ctx, c.plan, func() error {
		return c.breaker.Execute(func() error {
			result, callErr := c.doRequest(ctx, requestURL, location)
			if callErr != nil {
				return callErr
			}
			listings = result
			return nil
		})
	})
	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("failure").Inc()
		logger.GlobalLogger.Errorf("Provider search failed: location=%s, error=%v", location, err)
		return nil
	}

	metrics.ProviderRequestsTotal.WithLabelValues("success").Inc()
	logger.GlobalLogger.Printf("Provider returned %d listings for %s", len(listings), location)
	return listings
}

func (c *Client) buildRequestURL(areaID string, intent *models.SearchIntent, filters *models.SearchFilters) string {
	params := url.Values{}
	params.Set("placeId", areaID)
	params.Set("adults", strconv.Itoa(intent.Guests))
	params.Set("currency", "USD")

	// optional fields only when present
	if intent.PriceMin > 0 {
		params.Set("priceMin", strconv.Itoa(intent.PriceMin))
	}
	if intent.PriceMax > 0 {
		params.Set("priceMax", strconv.Itoa(intent.PriceMax))
	}
	if filters != nil {
		if filters.Checkin != "" {
			params.Set("checkin", filters.Checkin)
		}
		if filters.Checkout != "" {
			params.Set("checkout", filters.Checkout)
		}
	}

	return fmt.Sprintf("%s/api/v1/searchPropertyByPlace?%s", c.baseURL, params.Encode())
}

func (c *Client) doRequest(ctx context.Context, requestURL, location string) ([]models.RawListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider request: %v", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.ProviderRequestsTotal.WithLabelValues("rate_limited").Inc()
		return nil, fmt.Errorf("provider rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %v", err)
	}

	return parseListings(body, location)
}

// parseListings expects {"data": {"list": [...]}}; any other top-level
// shape is a provider error.
func parseListings(body []byte, location string) ([]models.RawListing, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("provider response is not JSON: %v", err)
	}

	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("provider response has no data object")
	}
	list, ok := data["list"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("provider response has no listings array")
	}

	listings := make([]models.RawListing, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			// skip non-object entries; the normalizer handles the rest
			continue
		}
		listings = append(listings, models.RawListing{Data: record, SourceLocation: location})
	}
	return listings, nil
}

func validLocation(location string) bool {
	if location == "" || len(location) > maxLocationLen {
		return false
	}
	for _, r := range location {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
