// Package service holds the business rules between the HTTP handlers and the
// document store.
package service

import (
	"context"

	"go.uber.org/zap"

	"flatboard/internal/apperr"
	"flatboard/internal/auth"
	"flatboard/internal/event"
	"flatboard/internal/model"
	"flatboard/internal/store"
	"flatboard/internal/util"
	"flatboard/pkg/metrics"
)

type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	clock  util.Clock
	events EventPublisher
	logger *zap.Logger
}

func NewAuthService(st store.Store, tokens *auth.TokenService, clock util.Clock, events EventPublisher, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  st,
		tokens: tokens,
		clock:  clock,
		events: events,
		logger: logger,
	}
}

// Register creates a new user and signs it straight in. The duplicate check
// and the insert run in one update cycle so two racing registrations cannot
// both land.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Validation("email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", apperr.Validation("password too long")
	}

	var user model.User
	err = s.store.Update(ctx, func(doc *model.Document) error {
		for _, u := range doc.Users {
			if u.Email == email {
				return apperr.Validation("user already exists")
			}
		}
		user = model.User{
			ID:           nextUserID(doc, s.clock.NowUtc()),
			Email:        email,
			PasswordHash: hash,
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.IncrementUserRegistration()
	publish(s.logger, s.events, event.RoutingKeyUserRegistered, event.UserRegisteredPayload{
		UserID:       user.ID,
		Email:        user.Email,
		RegisteredAt: s.clock.NowUtc(),
	})
	s.logger.Info("user registered", zap.Int64("user_id", user.ID))

	return s.tokens.Issue(user.ID, user.Email)
}

// Login checks credentials and returns a fresh token. Unknown email and wrong
// password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}

	var user *model.User
	for i := range doc.Users {
		if doc.Users[i].Email == email {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		metrics.IncrementLoginAttempt("failure")
		return "", apperr.Auth("invalid email or password")
	}

	metrics.IncrementLoginAttempt("success")
	return s.tokens.Issue(user.ID, user.Email)
}

// CurrentUser returns the caller's stored projection. A valid token whose
// user has since disappeared is a 404, not a 401.
func (s *AuthService) CurrentUser(ctx context.Context, identity model.Identity) (model.Identity, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return model.Identity{}, err
	}

	for _, u := range doc.Users {
		if u.ID == identity.ID {
			return model.Identity{ID: u.ID, Email: u.Email}, nil
		}
	}
	return model.Identity{}, apperr.NotFound("user not found")
}
