package store

import (
	"context"
	"sync"

	"flatboard/internal/model"
)

// MemoryStore keeps the document in process memory. It backs tests and
// throwaway runs; contents vanish on exit.
type MemoryStore struct {
	mu  sync.Mutex
	doc *model.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: model.NewDocument()}
}

func (s *MemoryStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	if err := fn(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
