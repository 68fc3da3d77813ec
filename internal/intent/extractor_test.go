package intent

import (
	"testing"

	"stayscout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor() *Extractor {
	return NewExtractor("San Francisco")
}

func TestExtractSingleLocation(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"in pattern", "Find a place in San Francisco", "San Francisco"},
		{"near pattern", "Looking for accommodation near London", "London"},
		{"at pattern", "Staying at Barcelona", "Barcelona"},
		{"visit pattern", "I want to visit Tokyo", "Tokyo"},
		{"stop words stripped", "Find a nice cheap house in Miami", "Miami"},
		{"trailing qualifiers stripped", "apartment in Paris under $200", "Paris"},
		{"multi word location", "villa in Mexico City", "Mexico City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := e.Extract(tt.query)
			require.NotEmpty(t, it.Locations)
			assert.Equal(t, []string{tt.expected}, it.Locations)
		})
	}
}

func TestExtractGlobalQueries(t *testing.T) {
	e := newTestExtractor()

	for _, query := range []string{
		"Cheapest large homes globally",
		"Best properties worldwide",
		"A villa anywhere",
	} {
		it := e.Extract(query)
		assert.Equal(t, globalLocations, it.Locations, "query: %s", query)
		assert.Len(t, it.Locations, 5)
	}
}

func TestExtractRegionalQueries(t *testing.T) {
	e := newTestExtractor()

	it := e.Extract("Budget-friendly houses in Europe")
	assert.Equal(t, regionLocations["europe"], it.Locations)

	it = e.Extract("Large group accommodation in Asia")
	assert.Equal(t, regionLocations["asia"], it.Locations)
}

func TestExtractFallsBackToDefaultLocation(t *testing.T) {
	e := newTestExtractor()

	for _, query := range []string{
		"",
		"cheap",
		"!!! ???",
		"12345",
	} {
		it := e.Extract(query)
		require.NotEmpty(t, it.Locations, "query: %q", query)
		assert.Equal(t, []string{"San Francisco"}, it.Locations, "query: %q", query)
	}
}

func TestExtractLocationsNeverEmpty(t *testing.T) {
	e := newTestExtractor()

	queries := []string{
		"Find a 3 bedroom house in Miami under $300",
		"anything at all",
		"<garbage>",
		"cheapest large homes globally",
		"near",
	}
	for _, q := range queries {
		it := e.Extract(q)
		assert.NotEmpty(t, it.Locations, "query: %q", q)
		assert.LessOrEqual(t, len(it.Locations), 10)
	}
}

func TestExtractSortCriteria(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, models.SortPriceAsc, e.Extract("cheapest places in Rome").SortBy)
	assert.Equal(t, models.SortPriceAsc, e.Extract("budget rooms in Berlin").SortBy)
	assert.Equal(t, models.SortPriceDesc, e.Extract("most expensive villas in Dubai").SortBy)
	assert.Equal(t, models.SortPriceDesc, e.Extract("luxury estates in Paris").SortBy)
	assert.Equal(t, models.SortNone, e.Extract("a place in Boston").SortBy)
}

func TestExtractSizeCriteria(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, models.SizeLarge, e.Extract("large spacious apartments in London").PropertySize)
	assert.Equal(t, models.SizeSmall, e.Extract("small cozy rooms in Paris").PropertySize)
	assert.Equal(t, models.SizeNone, e.Extract("apartments in Paris").PropertySize)
}

func TestExtractSortAndSizeAreOrthogonal(t *testing.T) {
	e := newTestExtractor()

	it := e.Extract("cheapest large homes globally")
	assert.Equal(t, models.SortPriceAsc, it.SortBy)
	assert.Equal(t, models.SizeLarge, it.PropertySize)
}

func TestExtractPriceBounds(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, 300, e.Extract("house in Miami under $300").PriceMax)
	assert.Equal(t, 150, e.Extract("rooms in Berlin below 150").PriceMax)
	assert.Equal(t, 500, e.Extract("villas in Dubai over $500").PriceMin)

	it := e.Extract("places in Rome between $100 and $400")
	assert.Equal(t, 100, it.PriceMin)
	assert.Equal(t, 400, it.PriceMax)

	// bounds are clamped
	assert.Equal(t, 50000, e.Extract("anything under $99999 in Tokyo").PriceMax)
}

func TestExtractBedroomAndGuestCounts(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		query    string
		bedrooms int
		guests   int
	}{
		{"Find a 3 bedroom house in Miami under $300", 3, 6},
		{"two bedroom flat in London", 2, 4},
		{"place in Boston for 5 people", 0, 5},
		{"house for six guests in Seattle", 0, 6},
		{"4 bedroom home for 10 people in Chicago", 4, 10},
		{"apartment in Paris", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			it := e.Extract(tt.query)
			assert.Equal(t, tt.bedrooms, it.Bedrooms, "bedrooms")
			assert.Equal(t, tt.guests, it.Guests, "guests")
		})
	}
}

func TestExtractPropertyType(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, "house", e.Extract("beach house in Miami").PropertyType)
	assert.Equal(t, "house", e.Extract("cheapest large homes globally").PropertyType)
	assert.Equal(t, "apartment", e.Extract("flat in London").PropertyType)
	assert.Equal(t, "villa", e.Extract("villa with pool in Bali").PropertyType)
	assert.Empty(t, e.Extract("somewhere in Rome").PropertyType)
}

func TestExtractRoundTripScenario(t *testing.T) {
	e := newTestExtractor()

	it := e.Extract("Find a 3 bedroom house in Miami under $300")
	assert.Equal(t, []string{"Miami"}, it.Locations)
	assert.Equal(t, 300, it.PriceMax)
	assert.Equal(t, 3, it.Bedrooms)
	assert.Equal(t, 6, it.Guests)
	assert.Equal(t, "house", it.PropertyType)
}

func TestExtractGlobalScenario(t *testing.T) {
	e := newTestExtractor()

	it := e.Extract("Cheapest large homes globally")
	assert.Equal(t, globalLocations, it.Locations)
	assert.Equal(t, models.SortPriceAsc, it.SortBy)
	assert.Equal(t, models.SizeLarge, it.PropertySize)
}
