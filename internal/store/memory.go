package store

import (
	"context"
	"sync"

	"github.com/simard-insights/callsync/internal/ingest"
)

// MemoryStore is an in-process merge-upsert store used by tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

// Upsert merges the record's fields into the document with the given key,
// creating it if absent.
func (s *MemoryStore) Upsert(ctx context.Context, key string, rec ingest.CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		doc = make(map[string]any)
		s.docs[key] = doc
	}
	for field, value := range rec.Fields() {
		doc[field] = value
	}
	return nil
}

// Get returns a copy of the stored document, if present.
func (s *MemoryStore) Get(key string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, true
}

// Len reports the number of distinct documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
