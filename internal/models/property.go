package models

// RawListing is one untrusted record from the listings provider, together
// with the location the search was fanned out for. The payload shape is not
// guaranteed; the normalizer probes it field by field.
type RawListing struct {
	Data           map[string]interface{}
	SourceLocation string
}

// Property is the canonical, fully-defaulted listing returned to clients.
// Every field is always present and within bounds.
type Property struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Price          int      `json:"price"`
	Currency       string   `json:"currency"`
	Rating         float64  `json:"rating"`
	ReviewCount    int      `json:"reviewCount"`
	ImageURL       string   `json:"imageUrl"`
	Location       string   `json:"location"`
	SourceLocation string   `json:"sourceLocation"`
	URL            string   `json:"url"`
	Type           string   `json:"type"`
	Guests         int      `json:"guests"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	Amenities      []string `json:"amenities"`
}

// PropertyDetails is a single normalized listing plus optional
// LLM-generated insight.
type PropertyDetails struct {
	Property
	AIHighlights []string `json:"ai_highlights,omitempty"`
	BestFor      string   `json:"best_for,omitempty"`
	LocalTips    []string `json:"local_tips,omitempty"`
}

// SearchData is the payload of a successful search.
type SearchData struct {
	Properties     []Property     `json:"properties"`
	Total          int            `json:"total"`
	Query          string         `json:"query"`
	Locations      []string       `json:"locations"`
	Criteria       SearchCriteria `json:"criteria"`
	ProcessingTime float64        `json:"processingTime"`
	AISummary      string         `json:"ai_summary,omitempty"`
	MatchReasons   []string       `json:"match_reasons,omitempty"`
}

// SearchCriteria echoes the ranking criteria applied to the result set.
type SearchCriteria struct {
	SortBy       string `json:"sort_by,omitempty"`
	PropertySize string `json:"property_size,omitempty"`
	PriceMin     int    `json:"price_min,omitempty"`
	PriceMax     int    `json:"price_max,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
}

// SearchResponse is the envelope every caller receives.
type SearchResponse struct {
	Success bool        `json:"success"`
	Data    *SearchData `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SearchRequest is the inbound search body.
type SearchRequest struct {
	Query   string         `json:"query"`
	Filters *SearchFilters `json:"filters,omitempty"`
}

// SearchFilters carries optional provider-side filters.
type SearchFilters struct {
	Checkin       string   `json:"checkin,omitempty"`
	Checkout      string   `json:"checkout,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	PropertyTypes []string `json:"propertyTypes,omitempty"`
}

// SuggestionsRequest is the inbound suggestions body.
type SuggestionsRequest struct {
	PartialQuery string `json:"partial_query"`
}
