package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"stayscout/internal/models"
)

// normalize a query for use in a cache key: lowercase, trimmed, collapsed
// whitespace.
func NormalizeQueryComponent(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// cache key for a full search response. Filters are folded into a digest so
// the same query with different filters never collides.
func SearchKey(query string, filters *models.SearchFilters) string {
	normalized := NormalizeQueryComponent(query)
	if filters == nil {
		return fmt.Sprintf("search:query:%s", normalized)
	}
	return fmt.Sprintf("search:query:%s:filters:%s", normalized, filtersDigest(filters))
}

// cache key for query suggestions.
func SuggestionsKey(partialQuery string) string {
	return fmt.Sprintf("suggestions:query:%s", NormalizeQueryComponent(partialQuery))
}

func filtersDigest(filters *models.SearchFilters) string {
	amenities := append([]string(nil), filters.Amenities...)
	sort.Strings(amenities)
	types := append([]string(nil), filters.PropertyTypes...)
	sort.Strings(types)

	payload := fmt.Sprintf("checkin=%s;checkout=%s;amenities=%s;types=%s",
		filters.Checkin, filters.Checkout,
		strings.Join(amenities, ","), strings.Join(types, ","))

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:8])
}
