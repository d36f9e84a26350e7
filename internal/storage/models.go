package storage

import (
	"time"

	"gorm.io/datatypes"
)

// stateRowID is the primary key of the single game_states row.
const stateRowID = 1

// GameStateRow holds the live game.
type GameStateRow struct {
	ID               uint           `gorm:"primaryKey"`
	DrawnNumbers     datatypes.JSON `gorm:"not null"`
	CurrentGameStart *time.Time
	UpdatedAt        time.Time
}

func (GameStateRow) TableName() string { return "game_states" }

// GameRecordRow is one completed game. Rows are only ever inserted.
type GameRecordRow struct {
	ID           uint           `gorm:"primaryKey"`
	Position     int            `gorm:"uniqueIndex;not null"`
	Date         time.Time      `gorm:"not null"`
	NumbersDrawn int            `gorm:"not null"`
	Numbers      datatypes.JSON `gorm:"not null"`
	CreatedAt    time.Time
}

func (GameRecordRow) TableName() string { return "game_records" }
