package search

import "slices"

// View is what a session is currently showing.
type View string

const (
	ViewHome    View = "home"
	ViewResults View = "results"
)

// Entry is a navigable history entry.
type Entry struct {
	View  View   `json:"view"`
	Query string `json:"query,omitempty"`
}

// HomeEntry is the entry recorded when returning to the home view.
var HomeEntry = Entry{View: ViewHome}

// NavigationObserver is told about every navigation a user initiates, so a
// front end can record it (browser history, URL, shell history).
type NavigationObserver interface {
	Navigated(Entry)
}

// ObserverFunc adapts a function to NavigationObserver.
type ObserverFunc func(Entry)

// Navigated calls f(e).
func (f ObserverFunc) Navigated(e Entry) {
	f(e)
}

// History is an in-memory back stack. It is not safe for concurrent use.
type History struct {
	entries []Entry
}

// NewHistory returns a history that starts on the home view.
func NewHistory() *History {
	return &History{entries: []Entry{HomeEntry}}
}

// Navigated pushes e.
func (h *History) Navigated(e Entry) {
	h.entries = append(h.entries, e)
}

// Back drops the current entry and returns the one before it. It reports
// false when there is nothing to go back to.
func (h *History) Back() (Entry, bool) {
	if len(h.entries) < 2 {
		return Entry{}, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Entry {
	return slices.Clone(h.entries)
}
