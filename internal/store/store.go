// Package store persists the document. Every driver implements the same
// contract: Load returns the document whole, Save rewrites it whole, and
// Update runs one load, mutate, save cycle isolated from concurrent updates
// through the same store.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"flatboard/internal/config"
	"flatboard/internal/model"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Store interface {
	// Load returns the current document, initializing an empty one on first
	// use of the backing medium.
	Load(ctx context.Context) (*model.Document, error)
	// Save rewrites the document in full.
	Save(ctx context.Context, doc *model.Document) error
	// Update applies fn to the current document and persists the result.
	// When fn returns an error nothing is written and the error comes back
	// unchanged.
	Update(ctx context.Context, fn func(doc *model.Document) error) error
	// Ping reports whether the backing medium is usable.
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the store selected by cfg.Driver, wrapped with operation
// metrics.
func Open(cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverFile, "":
		return Instrument(NewFileStore(cfg.File.Path, logger), DriverFile), nil
	case DriverMemory:
		return Instrument(NewMemoryStore(), DriverMemory), nil
	case DriverPostgres:
		s, err := NewPostgresStore(cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		return Instrument(s, DriverPostgres), nil
	case DriverRedis:
		return Instrument(NewRedisStore(cfg.Redis, logger), DriverRedis), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
