package game

import (
	"github.com/google/uuid"

	"tombola/internal/logging"
)

// WatcherBuffer is the number of events a watcher may fall behind before it is evicted.
const WatcherBuffer = 16

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{Watchers: make(map[string]*Watcher)}
}

// AddWatcher registers a new watcher and returns it
func (h *Hub) AddWatcher() *Watcher {
	w := &Watcher{
		ID:   uuid.NewString(),
		Send: make(chan Event, WatcherBuffer),
	}
	h.Mu.Lock()
	h.Watchers[w.ID] = w
	n := len(h.Watchers)
	h.Mu.Unlock()
	logging.Debugf("watcher %s connected (watchers=%d)", w.ID, n)
	return w
}

// RemoveWatcher unregisters a watcher and closes its channel. Safe to call twice.
func (h *Hub) RemoveWatcher(id string) {
	h.Mu.Lock()
	w, ok := h.Watchers[id]
	if ok {
		delete(h.Watchers, id)
		close(w.Send)
	}
	n := len(h.Watchers)
	h.Mu.Unlock()
	if ok {
		logging.Debugf("watcher %s disconnected (watchers=%d)", id, n)
	}
}

// Broadcast sends ev to every watcher without blocking. A watcher whose
// buffer is full is dropped so it reconnects and resyncs from a snapshot.
func (h *Hub) Broadcast(ev Event) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, w := range h.Watchers {
		select {
		case w.Send <- ev:
		default:
			delete(h.Watchers, id)
			close(w.Send)
			logging.Warnf("watcher %s evicted: send buffer full", id)
		}
	}
}

// Count returns the number of connected watchers
func (h *Hub) Count() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return len(h.Watchers)
}
