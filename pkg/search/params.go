package search

import (
	"strconv"
	"strings"
)

// Params are the search parameters carried in a URL.
type Params struct {
	// Query is the raw q parameter. Empty means the home view.
	Query string
	// Page is the 1-based page, defaulting to 1.
	Page int
}

// ParseParams reads q and page from HTTP query parameters. A missing, invalid
// or non-positive page becomes 1.
//
// Example:
//
//	params := ParseParams(r.URL.Query())
func ParseParams(queryParams map[string][]string) Params {
	params := Params{Page: 1}

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = strings.TrimSpace(q[0])
	}

	if pageStr := queryParams["page"]; len(pageStr) > 0 && pageStr[0] != "" {
		if parsed, err := strconv.Atoi(pageStr[0]); err == nil && parsed > 0 {
			params.Page = parsed
		}
	}

	return params
}
