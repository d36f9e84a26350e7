package game

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrAlreadyDrawn  = errors.New("number already drawn")
	ErrNothingToUndo = errors.New("no numbers to undo")
)

// NewState returns the empty state used when nothing has been persisted yet.
func NewState() GameState {
	return GameState{
		DrawnNumbers: []int{},
		GameHistory:  []HistoryRecord{},
	}
}

// ValidNumber reports whether n lies in the fixed pool.
func ValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// Clone returns a deep copy so callers never share backing arrays.
func (s GameState) Clone() GameState {
	out := GameState{
		DrawnNumbers: append([]int{}, s.DrawnNumbers...),
		GameHistory:  make([]HistoryRecord, len(s.GameHistory)),
	}
	for i, r := range s.GameHistory {
		r.Numbers = append([]int{}, r.Numbers...)
		out.GameHistory[i] = r
	}
	if s.CurrentGameStart != nil {
		t := *s.CurrentGameStart
		out.CurrentGameStart = &t
	}
	return out
}

// Validate checks the GameState invariants.
func (s GameState) Validate() error {
	if len(s.DrawnNumbers) > PoolSize {
		return fmt.Errorf("%d numbers drawn, pool holds %d", len(s.DrawnNumbers), PoolSize)
	}
	seen := make(map[int]struct{}, len(s.DrawnNumbers))
	for _, n := range s.DrawnNumbers {
		if !ValidNumber(n) {
			return fmt.Errorf("drawn number %d: %w", n, ErrInvalidNumber)
		}
		if _, ok := seen[n]; ok {
			return fmt.Errorf("drawn number %d: %w", n, ErrAlreadyDrawn)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// Has reports whether n has been drawn in the current game.
func (s GameState) Has(n int) bool {
	return slices.Contains(s.DrawnNumbers, n)
}

func (s GameState) event(kind EventKind) Event {
	return Event{
		Kind:         kind,
		DrawnNumbers: append([]int{}, s.DrawnNumbers...),
		TotalDrawn:   len(s.DrawnNumbers),
		Remaining:    PoolSize - len(s.DrawnNumbers),
	}
}

// Snapshot builds the sync_state event for a newly connected watcher.
func (s GameState) Snapshot() Event {
	return s.event(KindSyncState)
}

// Draw appends n to the draw log.
func Draw(s GameState, n int) (GameState, Event, error) {
	if !ValidNumber(n) {
		return s, Event{}, fmt.Errorf("draw %d: %w", n, ErrInvalidNumber)
	}
	if s.Has(n) {
		return s, Event{}, fmt.Errorf("draw %d: %w", n, ErrAlreadyDrawn)
	}
	next := s.Clone()
	next.DrawnNumbers = append(next.DrawnNumbers, n)
	ev := next.event(KindNumberDrawn)
	ev.Number = n
	return next, ev, nil
}

// Undo removes the most recently drawn number.
func Undo(s GameState) (GameState, Event, error) {
	if len(s.DrawnNumbers) == 0 {
		return s, Event{}, ErrNothingToUndo
	}
	next := s.Clone()
	last := next.DrawnNumbers[len(next.DrawnNumbers)-1]
	next.DrawnNumbers = next.DrawnNumbers[:len(next.DrawnNumbers)-1]
	ev := next.event(KindNumberUndone)
	ev.UndoneNumber = last
	return next, ev, nil
}

// Reset closes out the current game, recording it in the history when
// anything was drawn, and starts a new one at now.
func Reset(s GameState, now time.Time) (GameState, Event) {
	next := s.Clone()
	if len(next.DrawnNumbers) > 0 {
		numbers := append([]int{}, next.DrawnNumbers...)
		slices.Sort(numbers)
		next.GameHistory = append(next.GameHistory, HistoryRecord{
			Date:         now,
			NumbersDrawn: len(numbers),
			Numbers:      numbers,
		})
	}
	next.DrawnNumbers = []int{}
	next.CurrentGameStart = &now
	return next, next.event(KindGameReset)
}

// CheckMessage is the human readable answer to a check request.
func CheckMessage(n int, drawn bool) string {
	if drawn {
		return fmt.Sprintf("Number %d has already been drawn", n)
	}
	return fmt.Sprintf("Number %d has not been drawn", n)
}
