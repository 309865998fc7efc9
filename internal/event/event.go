// Package event defines the payloads published on the events exchange.
package event

import "time"

// Routing keys on the events exchange.
const (
	RoutingKeyUserRegistered = "user.registered"
	RoutingKeyPostCreated    = "post.created"
	RoutingKeyPostUpdated    = "post.updated"
	RoutingKeyPostDeleted    = "post.deleted"
)

type UserRegisteredPayload struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type PostCreatedPayload struct {
	PostID    string    `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PostUpdatedPayload struct {
	PostID   string `json:"post_id"`
	AuthorID int64  `json:"author_id"`
}

type PostDeletedPayload struct {
	PostID   string `json:"post_id"`
	AuthorID int64  `json:"author_id"`
}
