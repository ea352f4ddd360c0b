package memory

import (
	"context"
	"sync"

	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

var _ driven.ObjectStore = (*ObjectStore)(nil)

// Object is one stored object with its content type.
type Object struct {
	Body        []byte
	ContentType string
}

// ObjectStore keeps objects in a map keyed by object key.
type ObjectStore struct {
	mu      sync.Mutex
	objects map[string]Object

	// PutErr, when set, is returned by Put. Used to exercise upload-failure
	// paths.
	PutErr error
}

// NewObjectStore creates an empty in-memory object store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: make(map[string]Object)}
}

// Put writes body under key, replacing any existing object.
func (s *ObjectStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	if s.PutErr != nil {
		return s.PutErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[key] = Object{Body: stored, ContentType: contentType}
	return nil
}

// Get returns the object stored under key.
func (s *ObjectStore) Get(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Keys returns all stored object keys.
func (s *ObjectStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of stored objects.
func (s *ObjectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
