package service

import (
	"context"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/event"
	"flatboard/internal/model"
	"flatboard/internal/store"
	"flatboard/internal/util"
	"flatboard/pkg/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type PostService struct {
	store  store.Store
	clock  util.Clock
	events EventPublisher
	logger *zap.Logger
}

func NewPostService(st store.Store, clock util.Clock, events EventPublisher, logger *zap.Logger) *PostService {
	return &PostService{
		store:  st,
		clock:  clock,
		events: events,
		logger: logger,
	}
}

// List returns one page of posts in creation order. Page and limit values
// below 1 fall back to the defaults; pages past the end come back empty with
// the real total.
func (s *PostService) List(ctx context.Context, page, limit int) (*model.PostPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(doc.Posts))
	for id := range doc.Posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessPostID(ids[i], ids[j]) })

	total := len(ids)

	// bound by division first: page*limit overflows for huge query values
	start := total
	if page-1 <= (total-1)/limit {
		start = (page - 1) * limit
	}
	end := total
	if limit < total-start {
		end = start + limit
	}

	data := make([]model.Post, 0, end-start)
	for _, id := range ids[start:end] {
		data = append(data, doc.Posts[id])
	}

	return &model.PostPage{Page: page, Limit: limit, Total: total, Data: data}, nil
}

// Create stores a new post owned by author, merging the caller's fields. The
// id and author fields are server-owned; caller values for them are dropped.
func (s *PostService) Create(ctx context.Context, author model.Identity, fields map[string]any) (model.Post, error) {
	var post model.Post
	err := s.store.Update(ctx, func(doc *model.Document) error {
		post = model.Post{}
		for k, v := range fields {
			post[k] = v
		}
		post[model.PostFieldID] = nextPostID(doc, s.clock.NowUtc())
		post[model.PostFieldAuthor] = author.ID
		doc.Posts[post.ID()] = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrementPostMutation("create")
	publish(s.logger, s.events, event.RoutingKeyPostCreated, event.PostCreatedPayload{
		PostID:    post.ID(),
		AuthorID:  author.ID,
		CreatedAt: s.clock.NowUtc(),
	})
	s.logger.Info("post created", zap.String("post_id", post.ID()), zap.Int64("author_id", author.ID))

	return post, nil
}

// Replace swaps out every caller-supplied field of a post, keeping only its
// id and author. Owner only.
func (s *PostService) Replace(ctx context.Context, caller model.Identity, id string, fields map[string]any) (model.Post, error) {
	var post model.Post
	err := s.store.Update(ctx, func(doc *model.Document) error {
		existing, err := lookupOwned(doc, id, caller)
		if err != nil {
			return err
		}
		post = model.Post{}
		for k, v := range fields {
			post[k] = v
		}
		post[model.PostFieldID] = id
		post[model.PostFieldAuthor] = existing.AuthorID()
		doc.Posts[id] = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterUpdate("replace", id, caller)
	return post, nil
}

// Patch merges the caller's fields into a post, leaving the rest untouched.
// Owner only.
func (s *PostService) Patch(ctx context.Context, caller model.Identity, id string, fields map[string]any) (model.Post, error) {
	var post model.Post
	err := s.store.Update(ctx, func(doc *model.Document) error {
		existing, err := lookupOwned(doc, id, caller)
		if err != nil {
			return err
		}
		author := existing.AuthorID()
		for k, v := range fields {
			existing[k] = v
		}
		existing[model.PostFieldID] = id
		existing[model.PostFieldAuthor] = author
		doc.Posts[id] = existing
		post = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterUpdate("patch", id, caller)
	return post, nil
}

// Delete removes a post and returns what was removed. Owner only.
func (s *PostService) Delete(ctx context.Context, caller model.Identity, id string) (model.Post, error) {
	var post model.Post
	err := s.store.Update(ctx, func(doc *model.Document) error {
		existing, err := lookupOwned(doc, id, caller)
		if err != nil {
			return err
		}
		post = existing
		delete(doc.Posts, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrementPostMutation("delete")
	publish(s.logger, s.events, event.RoutingKeyPostDeleted, event.PostDeletedPayload{
		PostID:   id,
		AuthorID: caller.ID,
	})
	s.logger.Info("post deleted", zap.String("post_id", id), zap.Int64("author_id", caller.ID))

	return post, nil
}

func (s *PostService) afterUpdate(action, id string, caller model.Identity) {
	metrics.IncrementPostMutation(action)
	publish(s.logger, s.events, event.RoutingKeyPostUpdated, event.PostUpdatedPayload{
		PostID:   id,
		AuthorID: caller.ID,
	})
	s.logger.Info("post updated", zap.String("post_id", id), zap.Int64("author_id", caller.ID))
}

// lookupOwned fetches a post and checks the caller owns it.
func lookupOwned(doc *model.Document, id string, caller model.Identity) (model.Post, error) {
	post, ok := doc.Posts[id]
	if !ok {
		return nil, apperr.NotFound("post not found")
	}
	if post.AuthorID() != caller.ID {
		return nil, apperr.Forbidden("not the author")
	}
	return post, nil
}

// lessPostID orders ids numerically when both parse, so listing follows
// creation order. Non-numeric ids fall back to lexicographic order.
func lessPostID(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
