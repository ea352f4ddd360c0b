package memory

import (
	"context"
	"sync"

	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore keeps cursors in a map keyed by checkpoint key.
type CheckpointStore struct {
	mu      sync.Mutex
	cursors map[string]string
}

// NewCheckpointStore creates an empty in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{cursors: make(map[string]string)}
}

// Store persists the cursor under key, replacing any previous value.
func (s *CheckpointStore) Store(_ context.Context, key, cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[key] = cursor
	return nil
}

// Load returns the cursor stored under key; false when none exists.
func (s *CheckpointStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cursor, ok := s.cursors[key]
	return cursor, ok, nil
}
