package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tombola/internal/game"
	"tombola/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsFrame is the envelope every websocket message is sent in
type wsFrame struct {
	Event game.EventKind `json:"event"`
	Data  game.Event     `json:"data"`
}

// HandleSSE streams events as Server-Sent Events. The first event is always
// a sync_state snapshot.
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watcher := h.Tracker.Watch()
	defer h.Tracker.Unwatch(watcher)

	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// heartbeat
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case ev, ok := <-watcher.Send:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logging.Errorf("encode %s: %v", ev.Kind, err)
				return
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		}
	}
}

// HandleWS streams events over a websocket as {"event", "data"} frames.
// Nothing is expected from the client; reads only detect the close.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warnf("websocket upgrade from %s: %v", ClientIP(r), err)
		return
	}
	defer conn.Close()

	watcher := h.Tracker.Watch()
	defer h.Tracker.Unwatch(watcher)

	wait := 2 * h.Heartbeat
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logging.Debugf("watcher %s read: %v", watcher.ID, err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.WriteTimeout)); err != nil {
				return
			}
		case ev, ok := <-watcher.Send:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "fell behind, reconnect")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.WriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
			if err := conn.WriteJSON(wsFrame{Event: ev.Kind, Data: ev}); err != nil {
				logging.Debugf("watcher %s write: %v", watcher.ID, err)
				return
			}
		}
	}
}
