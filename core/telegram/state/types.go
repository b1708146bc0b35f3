package state

import "context"

// State identifies a finite-state-machine step used in conversations.
// Values are persisted as raw strings, one entry per chat id.
type State string

// Manager stores the current conversation state per user. Implementations
// must be safe for concurrent use by independent update handlers; per-key
// last-write-wins is sufficient.
type Manager interface {
	// Get returns the stored state for a user. The second return value is
	// false when no state has been stored yet.
	Get(ctx context.Context, userID int64) (State, bool, error)
	// Set overwrites the stored state for a user.
	Set(ctx context.Context, userID int64, st State) error

	Close() error
}
