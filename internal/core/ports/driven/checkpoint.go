package driven

import "context"

// CheckpointStore persists resumable cursor state for connectors. The cursor
// is an opaque blob; the backend (object storage, database row, in-memory)
// is configuration, not behaviour.
type CheckpointStore interface {
	// Store persists the cursor under the given key, replacing any previous
	// value.
	Store(ctx context.Context, key, cursor string) error

	// Load returns the cursor stored under key. The boolean is false when no
	// cursor exists; that is not an error.
	Load(ctx context.Context, key string) (string, bool, error)
}
