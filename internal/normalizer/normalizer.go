package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stayscout/internal/models"
	"stayscout/pkg/logger"
	"stayscout/pkg/metrics"
)

// Defaults applied when a raw field is missing or unusable. A record is only
// dropped when no identifier can be found.
const (
	DefaultPrice    = 100
	DefaultRating   = 4.5
	DefaultCurrency = "USD"
	DefaultType     = "apartment"
	DefaultGuests   = 2
	DefaultBedrooms = 1

	PlaceholderImageURL = "https://via.placeholder.com/400x300?text=No+Image"

	maxTitleLen    = 200
	maxLocationLen = 100
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	ratingReviews = regexp.MustCompile(`^([0-9.]+)\s*\((\d+)\)`)
	bareRating    = regexp.MustCompile(`^[0-9.]+$`)
)

// priceKeys is the fixed probe order for nested price objects.
var priceKeys = []string{"price", "amount", "value", "cost"}

// imageKeys is the fixed probe order for image candidate objects.
var imageKeys = []string{"picture", "url", "src", "image"}

type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize validates and converts one raw listing into a canonical
// Property. The second return value is false when the record has no usable
// identifier and must be excluded.
func (n *Normalizer) Normalize(raw models.RawListing) (*models.Property, bool) {
	data := raw.Data
	if data == nil {
		metrics.ListingsDroppedTotal.Inc()
		return nil, false
	}

	// the provider nests the listing body under "listing"; pricing often
	// lives beside it at the top level
	listing := data
	if inner, ok := data["listing"].(map[string]interface{}); ok {
		listing = inner
	}

	id := extractID(listing)
	if id == "" {
		metrics.ListingsDroppedTotal.Inc()
		logger.GlobalLogger.Debugf("Dropping listing without identifier from %s", raw.SourceLocation)
		return nil, false
	}

	p := &models.Property{
		ID:             id,
		SourceLocation: raw.SourceLocation,
		Currency:       extractString([]map[string]interface{}{listing, data}, []string{"currency"}, DefaultCurrency),
	}

	p.Price = SafeExtractPrice(firstPresent([]map[string]interface{}{listing, data}, "price", "pricingQuote", "rate", "totalPrice"))
	p.Rating, p.ReviewCount = SafeExtractRating(firstPresent([]map[string]interface{}{listing}, "rating", "avgRating", "starRating", "reviewsCountLabel"))
	if count, ok := toInt(firstPresent([]map[string]interface{}{listing}, "reviewsCount", "reviewCount")); ok && count >= 0 {
		p.ReviewCount = count
	}
	p.ImageURL = SafeExtractImageURL(firstPresent([]map[string]interface{}{listing}, "images", "contextualPictures", "picture", "pictureUrl", "imageUrl"))

	p.Title = capLength(extractString([]map[string]interface{}{listing}, []string{"title", "name", "listingName"}, "Property in "+raw.SourceLocation), maxTitleLen)
	p.Location = capLength(extractString([]map[string]interface{}{listing}, []string{"location", "city", "localizedCity", "publicAddress"}, raw.SourceLocation), maxLocationLen)
	p.URL = extractURL(listing, id)
	p.Type = extractString([]map[string]interface{}{listing}, []string{"type", "roomType", "propertyType", "roomTypeCategory"}, DefaultType)

	p.Guests = extractCount(listing, []string{"guests", "personCapacity", "maxGuestCapacity"}, DefaultGuests)
	p.Bedrooms = extractCount(listing, []string{"bedrooms", "bedroomCount"}, DefaultBedrooms)
	p.Bathrooms = extractCount(listing, []string{"bathrooms", "bathroomCount"}, 1)
	p.Amenities = extractAmenities(listing)

	return p, true
}

// NormalizeAll converts a batch, dropping unidentifiable records. A bad
// record never aborts normalization of the rest.
func (n *Normalizer) NormalizeAll(raws []models.RawListing) []models.Property {
	properties := make([]models.Property, 0, len(raws))
	for _, raw := range raws {
		if p, ok := n.Normalize(raw); ok {
			properties = append(properties, *p)
		}
	}
	return properties
}

// SafeExtractPrice accepts a numeric value, a numeric string or a nested
// object and always returns a non-negative integer. Garbage yields
// DefaultPrice.
func SafeExtractPrice(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return floorZero(int(val))
	case int:
		return floorZero(val)
	case int64:
		return floorZero(int(val))
	case string:
		cleaned := nonPriceChars.ReplaceAllString(val, "")
		if cleaned == "" {
			return DefaultPrice
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return DefaultPrice
		}
		return floorZero(int(f))
	case map[string]interface{}:
		for _, key := range priceKeys {
			if nested, ok := val[key]; ok {
				return SafeExtractPrice(nested)
			}
		}
		return DefaultPrice
	default:
		return DefaultPrice
	}
}

// SafeExtractRating returns (rating, reviewCount). The literal "new" means
// a listing with no reviews yet. Ratings are clamped to [0, 5].
func SafeExtractRating(v interface{}) (float64, int) {
	switch val := v.(type) {
	case float64:
		return clampRating(val), 0
	case int:
		return clampRating(float64(val)), 0
	case string:
		s := strings.TrimSpace(val)
		if strings.EqualFold(s, "new") {
			return 0, 0
		}
		if m := ratingReviews.FindStringSubmatch(s); m != nil {
			rating, err1 := strconv.ParseFloat(m[1], 64)
			count, err2 := strconv.Atoi(m[2])
			if err1 == nil && err2 == nil {
				if count < 0 {
					count = 0
				}
				return clampRating(rating), count
			}
		}
		if bareRating.MatchString(s) {
			if rating, err := strconv.ParseFloat(s, 64); err == nil {
				return clampRating(rating), 0
			}
		}
		return DefaultRating, 0
	default:
		return DefaultRating, 0
	}
}

// SafeExtractImageURL accepts a direct URL string or a sequence of
// candidates and returns the first absolute URL found, else a placeholder.
func SafeExtractImageURL(v interface{}) string {
	switch val := v.(type) {
	case string:
		if isAbsoluteURL(val) {
			return val
		}
	case []interface{}:
		for _, item := range val {
			switch candidate := item.(type) {
			case string:
				if isAbsoluteURL(candidate) {
					return candidate
				}
			case map[string]interface{}:
				for _, key := range imageKeys {
					if s, ok := candidate[key].(string); ok && isAbsoluteURL(s) {
						return s
					}
				}
			}
		}
	case map[string]interface{}:
		for _, key := range imageKeys {
			if s, ok := val[key].(string); ok && isAbsoluteURL(s) {
				return s
			}
		}
	}
	return PlaceholderImageURL
}

// extractID is the only probe whose failure discards the record.
func extractID(listing map[string]interface{}) string {
	for _, key := range []string{"id", "listingId", "listing_id", "roomId"} {
		switch val := listing[key].(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case float64:
			return strconv.FormatInt(int64(val), 10)
		case int:
			return strconv.Itoa(val)
		}
	}
	return ""
}

func extractURL(listing map[string]interface{}, id string) string {
	for _, key := range []string{"url", "listingUrl", "webURL"} {
		if s, ok := listing[key].(string); ok && isAbsoluteURL(s) {
			return s
		}
	}
	return fmt.Sprintf("https://www.airbnb.com/rooms/%s", id)
}

func extractString(maps []map[string]interface{}, keys []string, fallback string) string {
	for _, m := range maps {
		for _, key := range keys {
			if s, ok := m[key].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return fallback
}

func extractCount(listing map[string]interface{}, keys []string, fallback int) int {
	for _, key := range keys {
		if n, ok := toInt(listing[key]); ok && n >= 0 {
			return n
		}
	}
	return fallback
}

func extractAmenities(listing map[string]interface{}) []string {
	for _, key := range []string{"amenities", "previewAmenities", "amenityNames"} {
		items, ok := listing[key].([]interface{})
		if !ok {
			continue
		}
		var amenities []string
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				amenities = append(amenities, s)
			}
		}
		if len(amenities) > 0 {
			return amenities
		}
	}
	return []string{"WiFi"}
}

func firstPresent(maps []map[string]interface{}, keys ...string) interface{} {
	for _, m := range maps {
		for _, key := range keys {
			if v, ok := m[key]; ok && v != nil {
				return v
			}
		}
	}
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	}
	return 0, false
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// capLength truncates on a rune boundary so multibyte provider text never
// yields invalid UTF-8.
func capLength(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
