package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. Every read and write
// copies the document, so callers never share maps with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Insert(_ context.Context, collection string, doc Document) (string, error) {
	stored := doc.clone()
	if stored == nil {
		stored = Document{}
	}

	id := stored.ID()
	if id == "" {
		id = uuid.New().String()
	}
	stored["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}

	if _, exists := docs[id]; exists {
		return "", fmt.Errorf("%w: %s/%s", ErrAlreadyExists, collection, id)
	}

	docs[id] = stored
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, collection string, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}

	return doc.clone(), nil
}

func (s *MemoryStore) Update(
	_ context.Context,
	collection string,
	id string,
	patch Patch,
	conditions ...Predicate,
) error {
	if err := validatePredicates(conditions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	if !matchesAll(doc, conditions) {
		return ErrConditionFailed
	}

	updated := doc.clone()
	applyPatch(updated, patch)
	updated["id"] = id

	s.collections[collection][id] = updated
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}

	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, collection string, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]Document, 0)
	for _, doc := range s.collections[collection] {
		if matchesAll(doc, query.Predicates) {
			result = append(result, doc.clone())
		}
	}
	s.mu.RUnlock()

	return sortAndLimit(result, query), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}
