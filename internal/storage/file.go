package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tombola/internal/game"
)

// FileStore keeps the state as a single JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the data file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the data file. A missing file yields the empty state.
func (s *FileStore) Load(ctx context.Context) (game.GameState, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return game.NewState(), nil
	}
	if err != nil {
		return game.GameState{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return game.GameState{}, fmt.Errorf("%w: decode %s: %v", ErrCorrupt, s.path, err)
	}
	return normalize(doc.state())
}

// Save writes the whole state to a temporary file and renames it over the
// data file, so a crash never leaves a torn document behind.
func (s *FileStore) Save(ctx context.Context, state game.GameState) error {
	b, err := json.MarshalIndent(inUTC(state), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrWriteFailed, err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod %s: %v", ErrWriteFailed, tmp.Name(), err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrWriteFailed, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrWriteFailed, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrWriteFailed, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrWriteFailed, s.path, err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrWriteFailed, dir, err)
	}
	return nil
}

// syncDir flushes the directory entry so the rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// inUTC returns a copy of state with every timestamp in UTC.
func inUTC(state game.GameState) game.GameState {
	out := state.Clone()
	if out.CurrentGameStart != nil {
		t := out.CurrentGameStart.UTC()
		out.CurrentGameStart = &t
	}
	for i := range out.GameHistory {
		out.GameHistory[i].Date = out.GameHistory[i].Date.UTC()
	}
	return out
}

// normalize fills nil slices and rejects states that break the invariants.
func normalize(state game.GameState) (game.GameState, error) {
	if state.DrawnNumbers == nil {
		state.DrawnNumbers = []int{}
	}
	if state.GameHistory == nil {
		state.GameHistory = []game.HistoryRecord{}
	}
	for i := range state.GameHistory {
		if state.GameHistory[i].Numbers == nil {
			state.GameHistory[i].Numbers = []int{}
		}
	}
	if err := state.Validate(); err != nil {
		return game.GameState{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return state, nil
}
