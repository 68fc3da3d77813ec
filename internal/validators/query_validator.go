package validators

import (
	"fmt"
	"regexp"
	"strings"
)

const maxQueryLen = 1000

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// characters outside this allow-list are dropped
	unsafeChars   = regexp.MustCompile(`[^a-zA-Z0-9\s,.$!?'+-]`)
	multipleSpace = regexp.MustCompile(`\s+`)
)

type QueryValidator struct{}

func NewQueryValidator() *QueryValidator {
	return &QueryValidator{}
}

// Sanitize strips HTML-like tags and unsafe characters from a raw query and
// caps its length. The result may be empty.
func (v *QueryValidator) Sanitize(rawQuery string) string {
	q := htmlTagPattern.ReplaceAllString(rawQuery, "")
	q = unsafeChars.ReplaceAllString(q, "")
	q = multipleSpace.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)
	if len(q) > maxQueryLen {
		q = q[:maxQueryLen]
	}
	return q
}

// ValidateSearch rejects requests whose query is empty after sanitization.
func (v *QueryValidator) ValidateSearch(sanitizedQuery string) error {
	if sanitizedQuery == "" {
		return fmt.Errorf("search query is required")
	}
	return nil
}
