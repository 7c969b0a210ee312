package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rubiojr/sitesearch/pkg/index"
	"github.com/rubiojr/sitesearch/pkg/log"
	"github.com/rubiojr/sitesearch/pkg/realtime"
	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
)

type Server struct {
	store      *index.Store
	pagination search.Pagination
	strategy   report.Strategy
	errorPage  string
	hub        *realtime.Hub
	log        *log.Logger

	mu      sync.RWMutex
	loadErr error
}

func NewServer(store *index.Store, pagination search.Pagination) *Server {
	return &Server{
		store:      store,
		pagination: pagination,
		strategy:   report.StrategyRedirect,
		errorPage:  "/error",
		log:        log.ForService("api"),
	}
}

// SetErrorStrategy selects how load failures surface to API and websocket
// clients. Under the redirect strategy searches fail with the error code;
// under inline they run against whatever index is loaded.
func (s *Server) SetErrorStrategy(strategy report.Strategy, errorPage string) {
	s.strategy = strategy
	if errorPage != "" {
		s.errorPage = errorPage
	}
}

// SetHub enables push of index events to websocket sessions.
func (s *Server) SetHub(hub *realtime.Hub) {
	s.hub = hub
}

// SetLoadError records the outcome of the latest index load. nil clears it.
func (s *Server) SetLoadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// LoadError returns the error of the latest index load, if it failed.
func (s *Server) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Store returns the index store the server searches.
func (s *Server) Store() *index.Store {
	return s.store
}

// Pagination returns the configured pagination.
func (s *Server) Pagination() search.Pagination {
	return s.pagination
}

// ErrorStrategy returns the configured error strategy and error page.
func (s *Server) ErrorStrategy() (report.Strategy, string) {
	return s.strategy, s.errorPage
}

// blockingFailure returns the load failure that must stop a search, if any.
func (s *Server) blockingFailure() (report.Failure, bool) {
	err := s.LoadError()
	if err == nil || s.strategy != report.StrategyRedirect {
		return report.Failure{}, false
	}
	return report.Classify(err), true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
