package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/config"
	"flatboard/internal/model"
	"flatboard/internal/store"
)

func newFileStore(t *testing.T) (*store.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return store.NewFileStore(path, zap.NewNop()), path
}

func TestFileStoreInitializesMissingFile(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, doc.Users)
	require.Empty(t, doc.Posts)

	// the empty document is written out so the next process sees it too
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"users": [], "posts": {}}`, string(b))
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	email := gofakeit.Email()
	doc := model.NewDocument()
	doc.Users = append(doc.Users, model.User{
		ID:           1718000000000,
		Email:        email,
		PasswordHash: "$2a$08$fakehash",
	})
	doc.Posts["1718000000001"] = model.Post{
		"id":       "1718000000001",
		"authorId": int64(1718000000000),
		"title":    "hello",
		"rating":   4.5,
	}
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, doc.Users, got.Users)

	post := got.Posts["1718000000001"]
	require.Equal(t, "1718000000001", post.ID())
	require.Equal(t, int64(1718000000000), post.AuthorID())
	require.Equal(t, "hello", post["title"])
	require.Equal(t, json.Number("4.5"), post["rating"])
}

func TestFileStoreSaveAfterLoadIsByteStable(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	doc := model.NewDocument()
	doc.Users = append(doc.Users, model.User{ID: 1718000000000, Email: "a@example.com", PasswordHash: "x"})
	doc.Posts["1718000000001"] = model.Post{
		"id":       "1718000000001",
		"authorId": int64(1718000000000),
		"views":    int64(12345678901234),
		"rating":   4.5,
	}
	require.NoError(t, s.Save(ctx, doc))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, loaded))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestFileStoreCorruptFile(t *testing.T) {
	s, path := newFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := s.Load(context.Background())
	require.Error(t, err)
	require.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

func TestFileStoreUpdateDiscardsOnError(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	doc := model.NewDocument()
	doc.Posts["1"] = model.Post{"id": "1", "title": "keep"}
	require.NoError(t, s.Save(ctx, doc))

	wantErr := apperr.NotFound("post not found")
	err := s.Update(ctx, func(d *model.Document) error {
		delete(d.Posts, "1")
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Posts, "1")
}

func TestMemoryStoreCloneIsolation(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	doc := model.NewDocument()
	doc.Posts["1"] = model.Post{"id": "1", "title": "original"}
	require.NoError(t, s.Save(ctx, doc))

	// mutating what Load returned must not leak into the store
	leaked, err := s.Load(ctx)
	require.NoError(t, err)
	leaked.Posts["1"]["title"] = "mutated"

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "original", got.Posts["1"]["title"])
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	err := s.Update(ctx, func(d *model.Document) error {
		d.Posts["1"] = model.Post{"id": "1", "title": "added"}
		return nil
	})
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Posts, "1")

	wantErr := apperr.Forbidden("not the author")
	err = s.Update(ctx, func(d *model.Document) error {
		delete(d.Posts, "1")
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got.Posts, "1")
}

func TestOpenSelectsDriver(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	s, err := store.Open(config.StorageConfig{Driver: store.DriverMemory}, logger)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	s, err = store.Open(config.StorageConfig{
		Driver: store.DriverFile,
		File:   config.FileConfig{Path: filepath.Join(t.TempDir(), "data.json")},
	}, logger)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	_, err = store.Open(config.StorageConfig{Driver: "etcd"}, logger)
	require.Error(t, err)
}
