package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/config"
	"flatboard/internal/model"
)

const (
	redisDocumentKey   = "flatboard:document"
	redisUpdateRetries = 5
)

// RedisStore keeps the document JSON under a single key. Update runs an
// optimistic WATCH transaction and retries a bounded number of times when a
// concurrent writer touches the key first.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisStore(cfg config.RedisConfig, logger *zap.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	logger.Info("Initializing Redis document store", zap.String("addr", cfg.Addr))
	return &RedisStore{rdb: rdb, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) (*model.Document, error) {
	b, err := s.rdb.Get(ctx, redisDocumentKey).Bytes()
	if errors.Is(err, redis.Nil) {
		doc := model.NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Storage("load document key", err)
	}

	doc, err := model.DecodeDocument(b)
	if err != nil {
		return nil, apperr.Storage("decode document key", err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, doc *model.Document) error {
	b, err := model.EncodeDocument(doc)
	if err != nil {
		return apperr.Storage("encode document", err)
	}
	if err := s.rdb.Set(ctx, redisDocumentKey, b, 0).Err(); err != nil {
		return apperr.Storage("save document key", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	var fnErr error
	txn := func(tx *redis.Tx) error {
		fnErr = nil

		doc := model.NewDocument()
		b, err := tx.Get(ctx, redisDocumentKey).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// first use, start from the empty document
		case err != nil:
			return apperr.Storage("load document key", err)
		default:
			if doc, err = model.DecodeDocument(b); err != nil {
				return apperr.Storage("decode document key", err)
			}
		}

		if err := fn(doc); err != nil {
			fnErr = err
			return err
		}

		out, err := model.EncodeDocument(doc)
		if err != nil {
			return apperr.Storage("encode document", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisDocumentKey, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txn, redisDocumentKey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("document update conflicted, retrying", zap.Int("attempt", i+1))
			continue
		}
		if fnErr != nil {
			return fnErr
		}
		if apperr.KindOf(err) != 0 {
			return err
		}
		return apperr.Storage("update document key", err)
	}
	return apperr.Storage("update document key", redis.TxFailedErr)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
