package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route on a gorilla/mux router
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	// Full paths on the root router: a method mismatch inside a subrouter
	// falls through to NotFoundHandler instead of MethodNotAllowedHandler.
	r.HandleFunc("/api/draw", h.HandleDraw).Methods(http.MethodPost)
	r.HandleFunc("/api/status", h.HandleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/reset", h.HandleReset).Methods(http.MethodPost)
	r.HandleFunc("/api/undo", h.HandleUndo).Methods(http.MethodPost)
	r.HandleFunc("/api/history", h.HandleHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/check", h.HandleCheck).Methods(http.MethodPost)

	r.HandleFunc("/sse", h.HandleSSE).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.HandleWS).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", h.HandlePage).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}
