// Package search scores index records against a free-text query and pages
// through the results.
//
// # Overview
//
// The package has three layers, each usable on its own:
//
//   - Search: a pure function from (index, query) to ranked results
//   - Paginate and PlanButtons: slice a result list into pages and compute
//     the page-button plan shown under the results
//   - Session: the state machine behind one search box (current query,
//     current page, home/results view) that reports navigation to an
//     observer
//
// # Scoring
//
// The query is trimmed, lowercased and split on whitespace into keywords.
// For every record and every keyword:
//
//   - a substring match in the title adds 3 points and counts as a title match
//   - a substring match in the url adds 1 point
//
// Records whose titles match every keyword land in tier 2, records with some
// title matches in tier 1, the rest in tier 0. Records scoring 0 are dropped
// and the remainder is stably sorted by tier, then score, both descending.
// Records that tie keep their index order.
//
// # Usage Examples
//
// One-shot search and pagination:
//
//	results := search.Search(idx, "cats dogs")
//	page := search.Paginate(results, 1, search.DefaultPagination())
//	for _, r := range page.Results {
//		fmt.Println(r.Record.DisplayTitle(), r.Record.URL())
//	}
//
// Interactive session with browser-like history:
//
//	history := search.NewHistory()
//	session := search.NewSession(store, search.DefaultPagination(), history)
//	page, ok := session.DoSearch("cats")
//	next, err := session.NextPage()
//	if entry, ok := history.Back(); ok {
//		session.Restore(entry)
//	}
//
// Parsing HTTP parameters:
//
//	params := search.ParseParams(r.URL.Query())
//	page := search.Paginate(search.Search(idx, params.Query), params.Page, p)
//
// # Integration
//
// This package integrates with:
//
//   - pkg/index: records and the concurrent-safe Store that sessions read from
//   - pkg/api: REST and websocket endpoints drive Sessions
//   - cmd: the search and shell commands render Pages in the terminal
package search
