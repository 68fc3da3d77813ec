package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stayscout/internal/models"
	"stayscout/internal/resilience"
	"stayscout/pkg/metrics"
)

// ErrPropertyNotFound marks an id the provider does not know. It is not a
// provider failure and does not count against the breaker.
var ErrPropertyNotFound = errors.New("property not found")

// Details fetches one listing by provider id through the same retry and
// breaker discipline as Search. Unlike Search, errors propagate: the caller
// must distinguish "not found" from "provider down".
func (c *Client) Details(ctx context.Context, propertyID string) (models.RawListing, error) {
	if propertyID == "" {
		return models.RawListing{}, ErrPropertyNotFound
	}

	requestURL := fmt.Sprintf("%s/api/v1/getPropertyDetails?%s", c.baseURL,
		url.Values{"propertyId": {propertyID}, "currency": {"USD"}}.Encode())

	var raw models.RawListing
	var notFound bool
	start := time.Now()
	err := resilience.Retry(ctx, c.plan, func() error {
		return c.breaker.Execute(func() error {
			result, missing, callErr := c.doDetailsRequest(ctx, requestURL)
			if callErr != nil {
				return callErr
			}
			raw = result
			notFound = missing
			return nil
		})
	})
	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("failure").Inc()
		return models.RawListing{}, err
	}
	if notFound {
		metrics.ProviderRequestsTotal.WithLabelValues("not_found").Inc()
		return models.RawListing{}, ErrPropertyNotFound
	}

	metrics.ProviderRequestsTotal.WithLabelValues("success").Inc()
	return raw, nil
}

// doDetailsRequest reports a 404 through the middle return value so it flows
// through breaker and retry as a successful provider conversation.
func (c *Client) doDetailsRequest(ctx context.Context, requestURL string) (models.RawListing, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return models.RawListing{}, false, fmt.Errorf("failed to create provider request: %v", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.RawListing{}, false, fmt.Errorf("provider request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.RawListing{}, true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.ProviderRequestsTotal.WithLabelValues("rate_limited").Inc()
		return models.RawListing{}, false, fmt.Errorf("provider rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return models.RawListing{}, false, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.RawListing{}, false, fmt.Errorf("failed to read provider response: %v", err)
	}

	raw, err := parseDetails(body)
	return raw, false, err
}

// parseDetails expects {"data": {...}}; the data object is the listing body.
func parseDetails(body []byte) (models.RawListing, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.RawListing{}, fmt.Errorf("provider response is not JSON: %v", err)
	}

	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return models.RawListing{}, fmt.Errorf("provider response has no data object")
	}
	return models.RawListing{Data: data}, nil
}
