package store

import (
	"context"
	"time"

	"flatboard/internal/model"
	"flatboard/pkg/metrics"
)

// instrumentedStore records operation latency for whichever driver it wraps.
type instrumentedStore struct {
	inner  Store
	driver string
}

func Instrument(s Store, driver string) Store {
	return &instrumentedStore{inner: s, driver: driver}
}

func (s *instrumentedStore) Load(ctx context.Context) (*model.Document, error) {
	start := time.Now()
	doc, err := s.inner.Load(ctx)
	metrics.RecordStoreOpDuration("load", s.driver, time.Since(start))
	return doc, err
}

func (s *instrumentedStore) Save(ctx context.Context, doc *model.Document) error {
	start := time.Now()
	err := s.inner.Save(ctx, doc)
	metrics.RecordStoreOpDuration("save", s.driver, time.Since(start))
	return err
}

func (s *instrumentedStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	start := time.Now()
	err := s.inner.Update(ctx, fn)
	metrics.RecordStoreOpDuration("update", s.driver, time.Since(start))
	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *instrumentedStore) Close() error {
	return s.inner.Close()
}
