package game

import (
	"context"
	"fmt"
	"time"

	"tombola/internal/logging"
)

// NewTracker loads the persisted state and returns a tracker that owns it.
// A load failure is returned as is so corrupt data is never silently replaced.
func NewTracker(ctx context.Context, store Store, hub *Hub) (*Tracker, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &Tracker{
		state: state.Clone(),
		store: store,
		hub:   hub,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

// Hub returns the hub events are broadcast on
func (t *Tracker) Hub() *Hub {
	return t.hub
}

// commitLocked persists next and, only once it is durable, makes it the
// current state and announces ev. Must be called with the write lock held.
func (t *Tracker) commitLocked(ctx context.Context, next GameState, ev Event) error {
	if err := t.store.Save(ctx, next); err != nil {
		logging.Errorf("save %s: %v", ev.Kind, err)
		return fmt.Errorf("save state: %w", err)
	}
	t.state = next
	t.hub.Broadcast(ev)
	return nil
}

// Draw marks n as drawn
func (t *Tracker) Draw(ctx context.Context, n int) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ev, err := Draw(t.state, n)
	if err != nil {
		return Event{}, err
	}
	if err := t.commitLocked(ctx, next, ev); err != nil {
		return Event{}, err
	}
	logging.Infof("drew %d (total=%d remaining=%d)", n, ev.TotalDrawn, ev.Remaining)
	return ev, nil
}

// Undo removes the last drawn number
func (t *Tracker) Undo(ctx context.Context) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ev, err := Undo(t.state)
	if err != nil {
		return Event{}, err
	}
	if err := t.commitLocked(ctx, next, ev); err != nil {
		return Event{}, err
	}
	logging.Infof("undid %d (total=%d)", ev.UndoneNumber, ev.TotalDrawn)
	return ev, nil
}

// Reset archives the current game and starts a new one
func (t *Tracker) Reset(ctx context.Context) (Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	closed := len(t.state.DrawnNumbers)
	next, ev := Reset(t.state, t.now())
	if err := t.commitLocked(ctx, next, ev); err != nil {
		return Event{}, err
	}
	logging.Infof("game reset (closed game had %d numbers, history=%d)", closed, len(next.GameHistory))
	return ev, nil
}

// Status reports the current game
func (t *Tracker) Status() Status {
	t.mu.RLock()
	s := t.state.Clone()
	t.mu.RUnlock()

	available := make([]int, 0, PoolSize-len(s.DrawnNumbers))
	for n := MinNumber; n <= MaxNumber; n++ {
		if !s.Has(n) {
			available = append(available, n)
		}
	}
	st := Status{
		DrawnNumbers:     s.DrawnNumbers,
		TotalDrawn:       len(s.DrawnNumbers),
		Remaining:        PoolSize - len(s.DrawnNumbers),
		AvailableNumbers: available,
		CurrentGameStart: s.CurrentGameStart,
	}
	if len(s.DrawnNumbers) > 0 {
		last := s.DrawnNumbers[len(s.DrawnNumbers)-1]
		st.LastNumber = &last
	}
	return st
}

// Check reports whether n has been drawn
func (t *Tracker) Check(n int) (CheckResult, error) {
	if !ValidNumber(n) {
		return CheckResult{}, fmt.Errorf("check %d: %w", n, ErrInvalidNumber)
	}
	t.mu.RLock()
	drawn := t.state.Has(n)
	t.mu.RUnlock()
	return CheckResult{Number: n, Drawn: drawn, Message: CheckMessage(n, drawn)}, nil
}

// History returns the completed games, oldest first
func (t *Tracker) History() []HistoryRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone().GameHistory
}

// Watch registers a watcher whose first event is a snapshot of the current
// state. Holding the read lock keeps mutations, and so broadcasts, out until
// the watcher is both registered and primed.
func (t *Tracker) Watch() *Watcher {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w := t.hub.AddWatcher()
	w.Send <- t.state.Snapshot()
	return w
}

// Unwatch removes a watcher registered with Watch
func (t *Tracker) Unwatch(w *Watcher) {
	t.hub.RemoveWatcher(w.ID)
}
