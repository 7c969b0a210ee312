package components

import (
	"net/url"
	"strconv"

	"github.com/rubiojr/sitesearch/cmd/web/components/types"
	"github.com/rubiojr/sitesearch/pkg/search"
)

// Pagination labels.
const (
	PrevLabel     = "Prev"
	NextLabel     = "Next"
	EllipsisLabel = "..."
)

// PageHref returns the deep link for page of query's results.
func PageHref(query string, page int) string {
	params := url.Values{}
	params.Set("q", query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return "/?" + params.Encode()
}

// WebControls converts a page-button plan into links for query.
func WebControls(query string, controls []search.Control) []types.WebControl {
	out := make([]types.WebControl, 0, len(controls))
	for _, c := range controls {
		wc := types.WebControl{Current: c.Current, Disabled: c.Disabled}
		switch c.Kind {
		case search.ControlPrev:
			wc.Label = PrevLabel
		case search.ControlNext:
			wc.Label = NextLabel
		case search.ControlEllipsis:
			wc.Label = EllipsisLabel
			wc.Ellipsis = true
		default:
			wc.Label = strconv.Itoa(c.Page)
		}
		if !wc.Ellipsis && !wc.Disabled && c.Page > 0 {
			wc.Href = PageHref(query, c.Page)
		}
		out = append(out, wc)
	}
	return out
}

// WebResults converts a page of results for display. Untitled pages show
// their URL.
func WebResults(results []search.Result) []types.WebResult {
	out := make([]types.WebResult, len(results))
	for i, r := range results {
		out[i] = types.WebResult{
			URL:   r.Record.URL(),
			Title: r.Record.DisplayTitle(),
			Delay: i * 30,
		}
	}
	return out
}
