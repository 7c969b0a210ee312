package api

import (
	"time"

	"github.com/rubiojr/sitesearch/pkg/search"
)

type ResultResponse struct {
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Fields    map[string]string `json:"fields"`
	Score     int               `json:"score"`
	TitleTier int               `json:"title_tier"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SearchResponse struct {
	Query      string           `json:"query"`
	Results    []ResultResponse `json:"results"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	PageSize   int              `json:"page_size"`
	Controls   []search.Control `json:"controls"`
}

type StatusResponse struct {
	Count     int        `json:"count"`
	Status    string     `json:"status"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	ErrorCode string     `json:"error_code,omitempty"`
	Message   string     `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// NewSearchResponse converts a page of results for query into its JSON form.
func NewSearchResponse(query string, page search.Page) SearchResponse {
	results := make([]ResultResponse, len(page.Results))
	for i, r := range page.Results {
		results[i] = ResultResponse{
			URL:       r.Record.URL(),
			Title:     r.Record.DisplayTitle(),
			Fields:    r.Record,
			Score:     r.Score,
			TitleTier: r.TitleTier,
		}
	}
	controls := page.Controls
	if controls == nil {
		controls = []search.Control{}
	}
	return SearchResponse{
		Query:      query,
		Results:    results,
		TotalCount: page.TotalResults,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		PageSize:   page.PageSize,
		Controls:   controls,
	}
}
