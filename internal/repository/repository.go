// Package repository declares the storage interfaces the services depend on.
//
// The concrete implementation lives in repository/sqlite; tests substitute
// in-memory mocks. Services only ever see these interfaces, so the storage
// backend can change without touching business logic.
package repository

import (
	"context"

	"github.com/davidrq/friendmap/internal/model"
)

// UserRepository stores accounts created by the OAuth callback.
type UserRepository interface {
	// Upsert inserts a user keyed by email, or updates the stored name when a
	// row for that email already exists. The internal ID is preserved across
	// upserts and written back onto the passed user.
	Upsert(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventRepository stores map events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	// ListByCreator returns every event created by the given email.
	ListByCreator(ctx context.Context, creatorEmail string) ([]model.Event, error)
	// DeleteOwned removes the event only when both the id and the creator
	// email match. A miss on either is a silent no-op, not an error: a delete
	// aimed at someone else's event must not leak whether the event exists.
	DeleteOwned(ctx context.Context, id, creatorEmail string) error
}

// VisitRepository stores the append-only visit log.
type VisitRepository interface {
	Create(ctx context.Context, visit *model.Visit) error
	// ListByHost returns the host's visits, newest first.
	ListByHost(ctx context.Context, hostEmail string) ([]model.Visit, error)
}

// ReviewRepository stores establishment reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	// List returns every review; the feed is shared, not per-author.
	List(ctx context.Context) ([]model.Review, error)
	GetByID(ctx context.Context, id string) (*model.Review, error)
}
