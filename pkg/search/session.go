package search

import (
	"errors"
	"strings"

	"github.com/rubiojr/sitesearch/pkg/index"
)

// ErrNoSearch is returned by the paging methods when the session is not
// showing results.
var ErrNoSearch = errors.New("no active search")

// IndexSource provides the index a session searches. *index.Store
// implements it.
type IndexSource interface {
	Snapshot() index.Index
}

// Session holds the state of one search box: the current query, its results
// and the page being shown. A Session must only be used from one goroutine.
type Session struct {
	source     IndexSource
	pagination Pagination
	observer   NavigationObserver

	view    View
	query   string
	results []Result
	page    int
}

// NewSession creates a session on the home view. observer may be nil.
func NewSession(source IndexSource, p Pagination, observer NavigationObserver) *Session {
	return &Session{
		source:     source,
		pagination: p,
		observer:   observer,
		view:       ViewHome,
	}
}

// DoSearch runs query against the current index and shows its first page.
// Blank queries are ignored and reported with ok false; otherwise the
// observer receives a results entry.
func (s *Session) DoSearch(query string) (page Page, ok bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{}, false
	}
	page = s.run(query)
	s.notify(Entry{View: ViewResults, Query: query})
	return page, true
}

func (s *Session) run(query string) Page {
	var idx index.Index
	if s.source != nil {
		idx = s.source.Snapshot()
	}
	s.view = ViewResults
	s.query = query
	s.results = Search(idx, query)
	return s.show(1)
}

func (s *Session) show(n int) Page {
	pg := Paginate(s.results, n, s.pagination)
	s.page = pg.Number
	return pg
}

// ShowPage shows page n of the current results. n is clamped. The results are
// not recomputed and no navigation is reported.
func (s *Session) ShowPage(n int) (Page, error) {
	if s.view != ViewResults {
		return Page{}, ErrNoSearch
	}
	return s.show(n), nil
}

// NextPage shows the page after the current one, staying on the last page.
func (s *Session) NextPage() (Page, error) {
	return s.ShowPage(s.page + 1)
}

// PrevPage shows the page before the current one, staying on the first page.
func (s *Session) PrevPage() (Page, error) {
	return s.ShowPage(s.page - 1)
}

// Current returns the page being shown.
func (s *Session) Current() (Page, error) {
	return s.ShowPage(s.page)
}

// GoHome clears the search and reports a home entry.
func (s *Session) GoHome() {
	s.reset()
	s.notify(HomeEntry)
}

func (s *Session) reset() {
	s.view = ViewHome
	s.query = ""
	s.results = nil
	s.page = 0
}

// Restore applies a history entry without reporting it. A results entry
// re-runs its query from page 1 and returns ok true.
func (s *Session) Restore(e Entry) (page Page, ok bool) {
	query := strings.TrimSpace(e.Query)
	if e.View != ViewResults || query == "" {
		s.reset()
		return Page{}, false
	}
	return s.run(query), true
}

func (s *Session) notify(e Entry) {
	if s.observer != nil {
		s.observer.Navigated(e)
	}
}

// Query returns the active query, "" on the home view.
func (s *Session) Query() string { return s.query }

// CurrentPage returns the page number being shown, 0 on the home view.
func (s *Session) CurrentPage() int { return s.page }

// Results returns every result of the active search.
func (s *Session) Results() []Result { return s.results }

// View returns what the session is showing.
func (s *Session) View() View { return s.view }
