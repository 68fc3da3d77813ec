package models

// Sort directives derived from the query text.
const (
	SortNone      = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Size preferences derived from the query text.
const (
	SizeNone  = ""
	SizeSmall = "small"
	SizeLarge = "large"
)

// SearchIntent is the structured interpretation of a free-text query.
// Locations is never empty; the extractor falls back to a default.
type SearchIntent struct {
	Locations    []string
	SortBy       string
	PropertySize string
	PriceMin     int
	PriceMax     int
	Bedrooms     int
	Guests       int
	PropertyType string
}

// Criteria flattens the intent's ranking fields for the response echo.
func (i *SearchIntent) Criteria() SearchCriteria {
	return SearchCriteria{
		SortBy:       i.SortBy,
		PropertySize: i.PropertySize,
		PriceMin:     i.PriceMin,
		PriceMax:     i.PriceMax,
		PropertyType: i.PropertyType,
	}
}
