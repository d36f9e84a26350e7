package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"tombola/internal/game"
)

// zonelessLayout matches timestamps written without an offset, such as
// 2024-12-24T21:03:11.512345. They are read as UTC.
const zonelessLayout = "2006-01-02T15:04:05.999999999"

// stamp decodes RFC3339 timestamps and falls back to zoneless ones.
type stamp time.Time

func (s *stamp) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		*s = stamp(t.UTC())
		return nil
	}
	t, err := time.Parse(zonelessLayout, str)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", str, err)
	}
	*s = stamp(t.UTC())
	return nil
}

// document is the on-disk shape of the data file
type document struct {
	DrawnNumbers     []int            `json:"drawn_numbers"`
	GameHistory      []documentRecord `json:"game_history"`
	CurrentGameStart *stamp           `json:"current_game_start"`
}

type documentRecord struct {
	Date         stamp `json:"date"`
	NumbersDrawn int   `json:"numbers_drawn"`
	Numbers      []int `json:"numbers"`
}

func (d document) state() game.GameState {
	state := game.GameState{DrawnNumbers: d.DrawnNumbers}
	for _, r := range d.GameHistory {
		state.GameHistory = append(state.GameHistory, game.HistoryRecord{
			Date:         time.Time(r.Date),
			NumbersDrawn: r.NumbersDrawn,
			Numbers:      r.Numbers,
		})
	}
	if d.CurrentGameStart != nil {
		t := time.Time(*d.CurrentGameStart)
		state.CurrentGameStart = &t
	}
	return state
}
