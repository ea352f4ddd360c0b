package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps documents in a map keyed by id. Upserts replace the
// whole document, so removed labels and relationships do not linger.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]domain.Document

	// UpsertErr, when set, is returned by UpsertBatch. Used to exercise
	// load-failure paths.
	UpsertErr error
}

// NewDocumentStore creates an empty in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]domain.Document)}
}

// UpsertBatch stores the documents keyed by id and returns the ids written.
func (s *DocumentStore) UpsertBatch(_ context.Context, docs []domain.Document) ([]string, error) {
	if s.UpsertErr != nil {
		return nil, s.UpsertErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("%w: document without id in batch", domain.ErrInvalidInput)
		}
		s.docs[doc.ID] = doc
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// Get returns the stored document by id.
func (s *DocumentStore) Get(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
