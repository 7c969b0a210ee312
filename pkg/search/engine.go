package search

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/sitesearch/pkg/index"
)

// Points awarded per matching keyword.
const (
	TitlePoints = 3
	URLPoints   = 1
)

// Title tiers. A higher tier always ranks first regardless of score.
const (
	TierNone = 0
	TierSome = 1
	TierAll  = 2
)

// Result is a scored record.
type Result struct {
	Record index.Record `json:"record"`
	// Score is TitlePoints per title match plus URLPoints per url match.
	Score int `json:"score"`
	// TitleTier is TierAll when every keyword matched the title, TierSome
	// when at least one did and TierNone otherwise.
	TitleTier int `json:"title_tier"`
}

// Keywords splits query into lowercase keywords. Duplicates and order are
// kept; a blank query yields nil.
func Keywords(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return strings.Fields(cases.Lower(language.Und).String(query))
}

// Search ranks the records of idx against query.
//
// Records with no matching keyword are omitted. The returned slice is sorted
// by TitleTier, then Score, both descending; ties keep index order. A blank
// query or an empty index returns nil.
//
// Search does not cache and does not modify idx.
func Search(idx index.Index, query string) []Result {
	keywords := Keywords(query)
	if len(keywords) == 0 || len(idx) == 0 {
		return nil
	}

	lower := cases.Lower(language.Und)
	var results []Result
	for _, rec := range idx {
		title := lower.String(rec.Title())
		url := lower.String(rec.URL())

		score, titleMatches := 0, 0
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				score += TitlePoints
				titleMatches++
			}
			if strings.Contains(url, kw) {
				score += URLPoints
			}
		}
		if score == 0 {
			continue
		}

		tier := TierNone
		switch {
		case titleMatches == len(keywords):
			tier = TierAll
		case titleMatches > 0:
			tier = TierSome
		}
		results = append(results, Result{Record: rec, Score: score, TitleTier: tier})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		if c := cmp.Compare(b.TitleTier, a.TitleTier); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}
