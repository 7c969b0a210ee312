// Package realtime is an in-process publish/subscribe hub that fans out index
// lifecycle events (reloads, failed reloads) to listeners such as websocket
// sessions.
//
// Delivery is best effort: each listener has its own buffered channel and an
// event that does not fit is dropped for that listener only. There is no
// persistence or replay.
package realtime

import (
	"sync"
	"time"
)

// Event types.
const (
	TypeReload       = "reload"
	TypeLoadFailed   = "load_failed"
	TypeReloadFailed = "reload_failed" // previous index still served
)

// Event describes a change to the served index.
//
// Fields:
//   - Type:      TypeReload, TypeLoadFailed or TypeReloadFailed.
//   - Count:     Number of records now served (reloads and failed reloads).
//   - LoadedAt:  When the new index was installed (reloads only).
//   - ErrorCode: User-facing failure code (failures only).
//   - Message:   Failure description (failed reloads only).
type Event struct {
	Type      string    `json:"type"`
	Count     int       `json:"count,omitempty"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// ReloadEvent constructs a TypeReload event.
func ReloadEvent(count int, loadedAt time.Time) Event {
	return Event{Type: TypeReload, Count: count, LoadedAt: loadedAt}
}

// LoadFailedEvent constructs a TypeLoadFailed event.
func LoadFailedEvent(code, message string) Event {
	return Event{Type: TypeLoadFailed, ErrorCode: code, Message: message}
}

// ReloadFailedEvent constructs a TypeReloadFailed event; count is the size of
// the index still being served.
func ReloadFailedEvent(count int, code, message string) Event {
	return Event{Type: TypeReloadFailed, Count: count, ErrorCode: code, Message: message}
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events via its own buffered channel. If a listener's buffer is full when an
// event arrives, that event is dropped for that listener only.
//
// The hub is concurrency-safe.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// If bufSize <= 0, a default of 8 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a new listener and returns (listenerID, receiveOnlyChannel).
// Callers must later Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener with the given id and closes its channel.
// It is safe to call multiple times; unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers an event to all registered listeners (best effort).
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the current number of active listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
