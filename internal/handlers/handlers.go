package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tombola/internal/game"
	"tombola/internal/templates"
)

const (
	msgInvalidNumber = "Invalid number. Must be between 1 and 90"
	msgNothingToUndo = "No numbers to undo"
	msgSaveFailed    = "Failed to save game state"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Tracker      *game.Tracker
	Heartbeat    time.Duration
	WriteTimeout time.Duration
	Commit       string
	BuildDate    string
}

// NewHandler creates a new handler instance
func NewHandler(tracker *game.Tracker) *Handler {
	return &Handler{
		Tracker:      tracker,
		Heartbeat:    15 * time.Second,
		WriteTimeout: 10 * time.Second,
		Commit:       "dev",
	}
}

// mutationContext detaches a mutation from client cancellation: once a
// command is accepted it runs to completion.
func mutationContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// writeMutationError maps tracker errors onto HTTP responses
func writeMutationError(w http.ResponseWriter, n int, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidNumber):
		writeError(w, http.StatusBadRequest, msgInvalidNumber)
	case errors.Is(err, game.ErrAlreadyDrawn):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Number %d has already been drawn", n))
	case errors.Is(err, game.ErrNothingToUndo):
		writeError(w, http.StatusBadRequest, msgNothingToUndo)
	default:
		writeError(w, http.StatusInternalServerError, msgSaveFailed)
	}
}

// HandlePage serves the single caller/viewer page
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	templates.WriteHomeHTML(w, h.Commit)
}

// HandleDraw marks a number as drawn
func (h *Handler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidNumber)
		return
	}
	ev, err := h.Tracker.Draw(mutationContext(r), n)
	if err != nil {
		writeMutationError(w, n, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"number":      n,
		"total_drawn": ev.TotalDrawn,
		"remaining":   ev.Remaining,
	})
}

// HandleStatus reports the current game
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Tracker.Status())
}

// HandleReset archives the current game and starts a new one
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Tracker.Reset(mutationContext(r)); err != nil {
		writeMutationError(w, 0, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Game reset successfully"})
}

// HandleUndo removes the last drawn number
func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Tracker.Undo(mutationContext(r))
	if err != nil {
		writeMutationError(w, 0, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"undone_number": ev.UndoneNumber,
		"total_drawn":   ev.TotalDrawn,
	})
}

// HandleHistory lists completed games, oldest first
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"history": h.Tracker.History()})
}

// HandleCheck reports whether a number has been drawn
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	n, ok := decodeNumber(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidNumber)
		return
	}
	res, err := h.Tracker.Check(n)
	if err != nil {
		writeMutationError(w, n, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// HandleHealth reports liveness, the build and the number of connected observers
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"commit":     h.Commit,
		"build_date": h.BuildDate,
		"watchers":   h.Tracker.Hub().Count(),
	})
}
