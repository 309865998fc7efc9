package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/config"
	"flatboard/internal/model"
)

const documentSchema = `
CREATE TABLE IF NOT EXISTS document (
	id   smallint PRIMARY KEY CHECK (id = 1),
	body jsonb NOT NULL
)`

// PostgresStore keeps the document as a single jsonb row. Update runs inside
// a transaction with the row locked, so concurrent cycles serialize on the
// database rather than on this process.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects, creates the document table if needed and seeds
// the empty document so the row always exists for locking.
func NewPostgresStore(cfg config.DBConfig, logger *zap.Logger) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	)

	logger.Info("Initializing PostgreSQL document store",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnIdleTime = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, documentSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create document table: %w", err)
	}

	seed, err := model.EncodeDocument(model.NewDocument())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to encode empty document: %w", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO document (id, body) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`,
		json.RawMessage(seed),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed document row: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.Document, error) {
	var body json.RawMessage
	err := s.pool.QueryRow(ctx, `SELECT body FROM document WHERE id = 1`).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		doc := model.NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Storage("load document row", err)
	}

	doc, err := model.DecodeDocument(body)
	if err != nil {
		return nil, apperr.Storage("decode document row", err)
	}
	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *model.Document) error {
	b, err := model.EncodeDocument(doc)
	if err != nil {
		return apperr.Storage("encode document", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO document (id, body) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body`,
		json.RawMessage(b),
	)
	if err != nil {
		return apperr.Storage("save document row", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperr.Storage("begin document tx", err)
	}
	defer tx.Rollback(ctx)

	doc := model.NewDocument()
	var body json.RawMessage
	err = tx.QueryRow(ctx, `SELECT body FROM document WHERE id = 1 FOR UPDATE`).Scan(&body)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// row was deleted out of band, start from the empty document
	case err != nil:
		return apperr.Storage("load document row", err)
	default:
		if doc, err = model.DecodeDocument(body); err != nil {
			return apperr.Storage("decode document row", err)
		}
	}

	if err := fn(doc); err != nil {
		return err
	}

	b, err := model.EncodeDocument(doc)
	if err != nil {
		return apperr.Storage("encode document", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO document (id, body) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body`,
		json.RawMessage(b),
	)
	if err != nil {
		return apperr.Storage("save document row", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("commit document tx", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
