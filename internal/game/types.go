package game

import (
	"context"
	"sync"
	"time"
)

const (
	// MinNumber and MaxNumber bound the fixed pool of balls.
	MinNumber = 1
	MaxNumber = 90
	// PoolSize is the number of balls in a full game.
	PoolSize = MaxNumber - MinNumber + 1
)

// GameState is the authoritative draw state
type GameState struct {
	DrawnNumbers     []int           `json:"drawn_numbers"`
	GameHistory      []HistoryRecord `json:"game_history"`
	CurrentGameStart *time.Time      `json:"current_game_start"`
}

// HistoryRecord summarises a completed game. Numbers are sorted ascending.
type HistoryRecord struct {
	Date         time.Time `json:"date"`
	NumbersDrawn int       `json:"numbers_drawn"`
	Numbers      []int     `json:"numbers"`
}

// Store persists the full GameState
type Store interface {
	Load(ctx context.Context) (GameState, error)
	Save(ctx context.Context, state GameState) error
}

// EventKind names a realtime event as seen by observers
type EventKind string

const (
	KindSyncState    EventKind = "sync_state"
	KindNumberDrawn  EventKind = "number_drawn"
	KindNumberUndone EventKind = "number_undone"
	KindGameReset    EventKind = "game_reset"
)

// Event is pushed to every watcher after a mutation, or once on connect as a snapshot.
type Event struct {
	Kind         EventKind `json:"-"`
	Number       int       `json:"number,omitempty"`
	UndoneNumber int       `json:"undone_number,omitempty"`
	DrawnNumbers []int     `json:"drawn_numbers"`
	TotalDrawn   int       `json:"total_drawn"`
	Remaining    int       `json:"remaining"`
}

// Status is the read-only view returned by Tracker.Status
type Status struct {
	DrawnNumbers     []int      `json:"drawn_numbers"`
	TotalDrawn       int        `json:"total_drawn"`
	Remaining        int        `json:"remaining"`
	AvailableNumbers []int      `json:"available_numbers"`
	LastNumber       *int       `json:"last_number"`
	CurrentGameStart *time.Time `json:"current_game_start"`
}

// CheckResult answers whether a single number has been drawn
type CheckResult struct {
	Number  int    `json:"number"`
	Drawn   bool   `json:"drawn"`
	Message string `json:"message"`
}

// Hub fans events out to connected watchers
type Hub struct {
	Mu       sync.Mutex
	Watchers map[string]*Watcher
}

// Watcher is a single connected observer
type Watcher struct {
	ID   string
	Send chan Event
}

// Tracker owns the authoritative GameState and serializes every mutation.
type Tracker struct {
	mu    sync.RWMutex
	state GameState
	store Store
	hub   *Hub
	now   func() time.Time
}
