package index

import (
	"sync"
	"time"
)

// Store holds the current index for concurrent readers.
type Store struct {
	mu       sync.RWMutex
	idx      Index
	loadedAt time.Time
}

// NewStore returns an empty store. Searches against it yield nothing until
// the first Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly loaded index.
func (s *Store) Replace(idx Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = idx
	s.loadedAt = time.Now()
}

// Snapshot returns the current index. Callers must not modify it.
func (s *Store) Snapshot() Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx
}

// Count returns the number of records in the current index.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idx)
}

// LoadedAt returns when the index was last replaced, or the zero time.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
