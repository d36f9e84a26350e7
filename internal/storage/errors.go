package storage

import "errors"

var (
	// ErrCorrupt is returned when persisted state cannot be decoded or breaks an invariant.
	ErrCorrupt = errors.New("stored state is corrupt")
	// ErrWriteFailed is returned when state could not be durably written.
	ErrWriteFailed = errors.New("writing state failed")
)
