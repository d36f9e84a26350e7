package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tombola/internal/game"
)

func sampleState() game.GameState {
	start := time.Date(2024, 12, 24, 20, 0, 0, 123000, time.UTC)
	closed := start.Add(-time.Hour)
	return game.GameState{
		DrawnNumbers: []int{42, 7, 90},
		GameHistory: []game.HistoryRecord{
			{Date: closed, NumbersDrawn: 3, Numbers: []int{1, 2, 3}},
		},
		CurrentGameStart: &start,
	}
}

func TestFileStoreMissingFileIsEmptyState(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tombola_data.json"))
	state, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.NewState(), state)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "tombola_data.json"))
	want := sampleState()

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// save(load()) leaves the document unchanged
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, got))
	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestFileStoreSavesTimestampsInUTC(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "tombola_data.json"))
	cet := time.FixedZone("CET", 3600)
	start := time.Date(2024, 12, 24, 21, 0, 0, 0, cet)
	state := game.GameState{
		DrawnNumbers:     []int{1},
		GameHistory:      []game.HistoryRecord{{Date: start.Add(-time.Hour), NumbersDrawn: 1, Numbers: []int{2}}},
		CurrentGameStart: &start,
	}

	require.NoError(t, s.Save(ctx, state))
	got, err := s.Load(ctx)
	require.NoError(t, err)

	utcStart := start.UTC()
	want := game.GameState{
		DrawnNumbers:     []int{1},
		GameHistory:      []game.HistoryRecord{{Date: start.Add(-time.Hour).UTC(), NumbersDrawn: 1, Numbers: []int{2}}},
		CurrentGameStart: &utcStart,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, cet, state.CurrentGameStart.Location(), "save must not modify its input")
}

func TestFileStoreReadsZonelessTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tombola_data.json")
	doc := `{
  "drawn_numbers": [12, 3],
  "game_history": [
    {
      "date": "2024-12-24T21:03:11.512345",
      "numbers_drawn": 2,
      "numbers": [1, 90]
    }
  ],
  "current_game_start": "2024-12-24T21:05:00.000001"
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	state, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{12, 3}, state.DrawnNumbers)
	require.Len(t, state.GameHistory, 1)
	assert.Equal(t, time.Date(2024, 12, 24, 21, 3, 11, 512345000, time.UTC), state.GameHistory[0].Date)
	assert.Equal(t, []int{1, 90}, state.GameHistory[0].Numbers)
	require.NotNil(t, state.CurrentGameStart)
	assert.Equal(t, time.Date(2024, 12, 24, 21, 5, 0, 1000, time.UTC), *state.CurrentGameStart)
}

func TestFileStoreRejectsBadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tombola_data.json")
	doc := `{"drawn_numbers": [], "game_history": [], "current_game_start": "yesterday"}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStoreFileMode(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tombola_data.json"))
	require.NoError(t, s.Save(context.Background(), sampleState()))
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileStoreReadsNullGameStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tombola_data.json")
	doc := `{"drawn_numbers": [5], "game_history": [], "current_game_start": null}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	state, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{5}, state.DrawnNumbers)
	assert.Nil(t, state.CurrentGameStart)
}

func TestFileStoreCorrupt(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":     `{"drawn_numbers": [1, 2`,
		"out of range": `{"drawn_numbers": [91], "game_history": []}`,
		"duplicate":    `{"drawn_numbers": [3, 3], "game_history": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tombola_data.json")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
			_, err := NewFileStore(path).Load(context.Background())
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestFileStoreWriteFailed(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "tombola_data.json"))
	err := s.Save(context.Background(), game.NewState())
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "tombola_data.json"))
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Save(context.Background(), sampleState()))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tombola_data.json", entries[0].Name())
}
