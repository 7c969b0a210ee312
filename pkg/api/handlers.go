package api

import (
	"net/http"
	"time"

	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
	"github.com/rubiojr/sitesearch/pkg/version"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseParams(r.URL.Query())

	// API requires a query parameter
	if params.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	if f, blocked := s.blockingFailure(); blocked {
		s.writeError(w, http.StatusServiceUnavailable, string(f.Code), f.Description)
		return
	}

	results := search.Search(s.store.Snapshot(), params.Query)
	page := search.Paginate(results, params.Page, s.pagination)

	s.writeJSON(w, http.StatusOK, NewSearchResponse(params.Query, page))
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) status() StatusResponse {
	count := s.store.Count()
	resp := StatusResponse{
		Count:  count,
		Status: report.LoadedStatus(count),
	}
	if at := s.store.LoadedAt(); !at.IsZero() {
		resp.LoadedAt = &at
	}
	if err := s.LoadError(); err != nil {
		f := report.Classify(err)
		resp.Status = report.FailedStatus(f)
		resp.ErrorCode = string(f.Code)
		resp.Message = f.Description
	}
	return resp
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
