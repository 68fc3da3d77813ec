package intent

import (
	"regexp"
	"strconv"
	"strings"

	"stayscout/internal/models"
)

// Curated substitution sets for global and regional queries, capped at five
// cities each. Static, read-only.
var globalLocations = []string{"New York", "London", "Paris", "Tokyo", "Sydney"}

var regionOrder = []string{"europe", "asia", "north america", "america"}

var regionLocations = map[string][]string{
	"europe":        {"London", "Paris", "Barcelona", "Rome", "Amsterdam"},
	"asia":          {"Tokyo", "Singapore", "Bangkok", "Seoul", "Hong Kong"},
	"north america": {"New York", "Los Angeles", "Chicago", "Toronto", "Mexico City"},
	"america":       {"New York", "Los Angeles", "Chicago", "Miami", "Toronto"},
}

var globalPattern = regexp.MustCompile(`\b(globally|worldwide|anywhere|around the world|internationally|multiple countries)\b`)

// locationPatterns are tried in order; the first one whose residue survives
// stop-word stripping wins.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bin ([a-z][a-z' ]*)`),
	regexp.MustCompile(`\bnear ([a-z][a-z' ]*)`),
	regexp.MustCompile(`\bat ([a-z][a-z' ]*)`),
	regexp.MustCompile(`\baround ([a-z][a-z' ]*)`),
	regexp.MustCompile(`\bvisit(?:ing)? ([a-z][a-z' ]*)`),
}

// stopWords are stripped from a matched phrase before it is accepted as a
// location: articles, qualifiers, amenity and room nouns, and the connective
// words that phrase patterns tend to swallow.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "some": true, "any": true, "my": true,
	"our": true, "this": true, "that": true, "nice": true, "good": true,
	"great": true, "best": true, "cheap": true, "cheapest": true,
	"affordable": true, "budget": true, "expensive": true, "luxury": true,
	"premium": true, "large": true, "big": true, "huge": true, "spacious": true,
	"small": true, "tiny": true, "cozy": true, "modern": true, "beautiful": true,
	"house": true, "houses": true, "home": true, "homes": true,
	"apartment": true, "apartments": true, "flat": true, "flats": true,
	"villa": true, "villas": true, "condo": true, "condos": true,
	"cabin": true, "cabins": true, "studio": true, "studios": true,
	"loft": true, "lofts": true, "place": true, "places": true,
	"room": true, "rooms": true, "bedroom": true, "bedrooms": true,
	"bathroom": true, "bathrooms": true, "property": true, "properties": true,
	"accommodation": true, "accommodations": true, "stay": true, "stays": true,
	"rental": true, "rentals": true, "estate": true, "estates": true,
	"group": true, "for": true, "with": true, "and": true, "or": true,
	"under": true, "over": true, "above": true, "below": true, "between": true,
	"from": true, "to": true, "people": true, "person": true, "persons": true,
	"guest": true, "guests": true, "adults": true, "pool": true, "wifi": true,
	"beach": true, "downtown": true, "find": true, "looking": true, "me": true,
	"cottage": true, "cottages": true, "bungalow": true, "bungalows": true,
}

var (
	priceAscPattern  = regexp.MustCompile(`cheapest|budget|affordable|lowest price`)
	priceDescPattern = regexp.MustCompile(`most expensive|luxury|premium`)
	largePattern     = regexp.MustCompile(`\b(large|big|huge|spacious)\b`)
	smallPattern     = regexp.MustCompile(`\b(small|tiny|cozy)\b`)

	priceMaxPatterns = []*regexp.Regexp{
		regexp.MustCompile(`under \$?(\d+)`),
		regexp.MustCompile(`below \$?(\d+)`),
		regexp.MustCompile(`less than \$?(\d+)`),
		regexp.MustCompile(`max(?:imum)? \$?(\d+)`),
	}
	priceMinPatterns = []*regexp.Regexp{
		regexp.MustCompile(`over \$?(\d+)`),
		regexp.MustCompile(`above \$?(\d+)`),
		regexp.MustCompile(`more than \$?(\d+)`),
		regexp.MustCompile(`min(?:imum)? \$?(\d+)`),
	}
	priceRangePattern = regexp.MustCompile(`between \$?(\d+) and \$?(\d+)`)

	bedroomPattern = regexp.MustCompile(`(\d+|` + numberWordAlternation + `)\s*\+?[\s-]*bedroom`)
	guestPattern   = regexp.MustCompile(`(\d+|` + numberWordAlternation + `)\s*\+?\s*(?:people|guests?|persons?|adults?)\b`)
)

// propertyTypes is the sanitized vocabulary for the type hint, in match
// priority order. Synonyms collapse onto the canonical name.
var propertyTypes = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\bhouses?\b`), "house"},
	{regexp.MustCompile(`\bhomes?\b`), "house"},
	{regexp.MustCompile(`\bapartments?\b`), "apartment"},
	{regexp.MustCompile(`\bflats?\b`), "apartment"},
	{regexp.MustCompile(`\bvillas?\b`), "villa"},
	{regexp.MustCompile(`\bcondos?\b`), "condo"},
	{regexp.MustCompile(`\bcabins?\b`), "cabin"},
	{regexp.MustCompile(`\bstudios?\b`), "studio"},
	{regexp.MustCompile(`\blofts?\b`), "loft"},
	{regexp.MustCompile(`\bestates?\b`), "house"},
}

const maxLocations = 10
const maxPrice = 50000

// Extractor turns free text into a SearchIntent. It never fails; when
// nothing in the query looks like a location it falls back to the
// configured default.
type Extractor struct {
	defaultLocation string
}

func NewExtractor(defaultLocation string) *Extractor {
	return &Extractor{defaultLocation: defaultLocation}
}

// Extract parses the query into locations and ranking criteria.
func (e *Extractor) Extract(rawQuery string) *models.SearchIntent {
	query := strings.ToLower(strings.TrimSpace(rawQuery))

	it := &models.SearchIntent{
		Locations: e.extractLocations(query),
	}
	e.extractCriteria(query, it)
	e.extractCounts(query, it)
	e.extractPropertyType(query, it)
	return it
}

func (e *Extractor) extractLocations(query string) []string {
	if globalPattern.MatchString(query) {
		return append([]string(nil), globalLocations...)
	}

	for _, region := range regionOrder {
		if strings.Contains(query, region) {
			cities := regionLocations[region]
			if len(cities) > 5 {
				cities = cities[:5]
			}
			return append([]string(nil), cities...)
		}
	}

	if loc := e.extractSingleLocation(query); loc != "" {
		return []string{loc}
	}
	return []string{e.defaultLocation}
}

func (e *Extractor) extractSingleLocation(query string) string {
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		if loc := cleanLocation(m[1]); loc != "" {
			return loc
		}
	}

	// last clause of the sentence as a final guess
	clauses := strings.FieldsFunc(query, func(r rune) bool {
		return r == ',' || r == ';' || r == '.'
	})
	if len(clauses) > 0 {
		return cleanLocation(clauses[len(clauses)-1])
	}
	return ""
}

// cleanLocation strips stop words and validates the residue: at least two
// characters and at least one letter, title-cased.
func cleanLocation(phrase string) string {
	var kept []string
	for _, word := range strings.Fields(phrase) {
		word = strings.Trim(word, "'")
		if word == "" || stopWords[word] || numberWords[word] != 0 {
			continue
		}
		if isDigits(word) {
			continue
		}
		kept = append(kept, word)
	}

	residue := strings.Join(kept, " ")
	if len(residue) < 2 || !hasLetter(residue) {
		return ""
	}
	return titleCase(residue)
}

func (e *Extractor) extractCriteria(query string, it *models.SearchIntent) {
	// sort and size are orthogonal and may both be set
	if priceAscPattern.MatchString(query) {
		it.SortBy = models.SortPriceAsc
	} else if priceDescPattern.MatchString(query) {
		it.SortBy = models.SortPriceDesc
	}

	if largePattern.MatchString(query) {
		it.PropertySize = models.SizeLarge
	} else if smallPattern.MatchString(query) {
		it.PropertySize = models.SizeSmall
	}

	if m := priceRangePattern.FindStringSubmatch(query); m != nil {
		it.PriceMin = clampPrice(atoi(m[1]))
		it.PriceMax = clampPrice(atoi(m[2]))
		return
	}
	for _, p := range priceMaxPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			it.PriceMax = clampPrice(atoi(m[1]))
			break
		}
	}
	for _, p := range priceMinPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			it.PriceMin = clampPrice(atoi(m[1]))
			break
		}
	}
}

func (e *Extractor) extractCounts(query string, it *models.SearchIntent) {
	if m := bedroomPattern.FindStringSubmatch(query); m != nil {
		it.Bedrooms = parseCount(m[1])
	}
	if m := guestPattern.FindStringSubmatch(query); m != nil {
		it.Guests = parseCount(m[1])
	}

	if it.Guests == 0 {
		if it.Bedrooms > 0 {
			it.Guests = it.Bedrooms * 2
		} else {
			it.Guests = 2
		}
	}
}

func (e *Extractor) extractPropertyType(query string, it *models.SearchIntent) {
	for _, pt := range propertyTypes {
		if pt.pattern.MatchString(query) {
			it.PropertyType = pt.canonical
			return
		}
	}
}

func parseCount(s string) int {
	if n, ok := numberWords[s]; ok {
		return n
	}
	return atoi(s)
}

func clampPrice(p int) int {
	if p < 0 {
		return 0
	}
	if p > maxPrice {
		return maxPrice
	}
	return p
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
