package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tombola/internal/game"
)

// DBStore keeps the state in a relational database through gorm.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a new store helper from a gorm DB.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *DBStore) DB() *gorm.DB {
	return s.db
}

// Load reads the live game and the full history. Missing rows yield the empty state.
func (s *DBStore) Load(ctx context.Context) (game.GameState, error) {
	state := game.NewState()
	db := s.db.WithContext(ctx)

	var row GameStateRow
	err := db.First(&row, stateRowID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return game.GameState{}, fmt.Errorf("load game state: %w", err)
	default:
		if err := json.Unmarshal(row.DrawnNumbers, &state.DrawnNumbers); err != nil {
			return game.GameState{}, fmt.Errorf("%w: drawn numbers: %v", ErrCorrupt, err)
		}
		if row.CurrentGameStart != nil {
			t := row.CurrentGameStart.UTC()
			state.CurrentGameStart = &t
		}
	}

	var records []GameRecordRow
	if err := db.Order("position asc").Find(&records).Error; err != nil {
		return game.GameState{}, fmt.Errorf("load game records: %w", err)
	}
	for i, r := range records {
		if r.Position != i {
			return game.GameState{}, fmt.Errorf("%w: game record at position %d, want %d", ErrCorrupt, r.Position, i)
		}
		rec := game.HistoryRecord{Date: r.Date.UTC(), NumbersDrawn: r.NumbersDrawn}
		if err := json.Unmarshal(r.Numbers, &rec.Numbers); err != nil {
			return game.GameState{}, fmt.Errorf("%w: game record %d: %v", ErrCorrupt, r.Position, err)
		}
		state.GameHistory = append(state.GameHistory, rec)
	}
	return normalize(state)
}

// Save upserts the live game and appends any history records not yet stored,
// all in one transaction.
func (s *DBStore) Save(ctx context.Context, state game.GameState) error {
	drawn, err := json.Marshal(orEmpty(state.DrawnNumbers))
	if err != nil {
		return fmt.Errorf("%w: encode drawn numbers: %v", ErrWriteFailed, err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := GameStateRow{
			ID:               stateRowID,
			DrawnNumbers:     drawn,
			CurrentGameStart: state.CurrentGameStart,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"drawn_numbers", "current_game_start", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}

		var stored int64
		if err := tx.Model(&GameRecordRow{}).Count(&stored).Error; err != nil {
			return err
		}
		if int(stored) > len(state.GameHistory) {
			return fmt.Errorf("history has %d records, %d already stored", len(state.GameHistory), stored)
		}
		for i := int(stored); i < len(state.GameHistory); i++ {
			r := state.GameHistory[i]
			numbers, err := json.Marshal(orEmpty(r.Numbers))
			if err != nil {
				return err
			}
			rec := GameRecordRow{Position: i, Date: r.Date, NumbersDrawn: r.NumbersDrawn, Numbers: numbers}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func orEmpty(ns []int) []int {
	if ns == nil {
		return []int{}
	}
	return ns
}
