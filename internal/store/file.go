package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/model"
)

// FileStore keeps the document in one JSON file, rewritten in full on every
// save. The mutex serializes whole update cycles, not just the file I/O.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *FileStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return err
}

func (s *FileStore) Close() error { return nil }

// load reads and decodes the file, creating an empty document when the file
// does not exist yet. Callers hold s.mu.
func (s *FileStore) load() (*model.Document, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("document file missing, initializing", zap.String("path", s.path))
		doc := model.NewDocument()
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Storage("read document file", err)
	}

	doc, err := model.DecodeDocument(b)
	if err != nil {
		return nil, apperr.Storage("decode document file", err)
	}
	return doc, nil
}

func (s *FileStore) save(doc *model.Document) error {
	b, err := model.EncodeDocument(doc)
	if err != nil {
		return apperr.Storage("encode document", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return apperr.Storage("write document file", err)
	}
	return nil
}
