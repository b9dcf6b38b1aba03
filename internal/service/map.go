package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/repository"
)

// MaxEventNameLength bounds the event name field.
const MaxEventNameLength = 120

// MapService implements the map page semantics: the owner/visitor branch,
// the visit side effect, and event create/delete.
type MapService struct {
	events repository.EventRepository
	visits repository.VisitRepository
	logger *slog.Logger
}

// NewMapService creates a MapService.
func NewMapService(events repository.EventRepository, visits repository.VisitRepository, logger *slog.Logger) *MapService {
	return &MapService{
		events: events,
		visits: visits,
		logger: logger,
	}
}

// MapView is everything the map page needs for one render.
type MapView struct {
	OwnerEmail string
	IsOwner    bool
	Events     []model.Event
	Visits     []model.Visit // populated only for the owner
}

// View resolves whose map is shown and applies the visit rule.
//
// targetEmail selects the owner; empty means "my own map". Ownership is
// exact string equality between the viewer's email and the owner email.
//
//   - Owner viewing their own map: read the visit log (newest first), write
//     nothing.
//   - Anyone else: append exactly one visit row and read no visits back.
//
// Both branches then load the owner's events. The visit write and the event
// read are independent store operations with no transaction spanning them.
//
// Every non-owner view writes a row. No dedup, no rate limit: reloading a
// friend's map five times is five visits.
func (s *MapService) View(ctx context.Context, viewer *model.User, targetEmail string) (*MapView, error) {
	if viewer == nil {
		return nil, fmt.Errorf("service/map: viewer is required")
	}

	ownerEmail := strings.TrimSpace(targetEmail)
	if ownerEmail == "" {
		ownerEmail = viewer.Email
	}

	view := &MapView{
		OwnerEmail: ownerEmail,
		IsOwner:    viewer.Email == ownerEmail,
	}

	if view.IsOwner {
		visits, err := s.visits.ListByHost(ctx, ownerEmail)
		if err != nil {
			return nil, fmt.Errorf("service/map: listing visits for %s: %w", ownerEmail, err)
		}
		view.Visits = visits
	} else {
		visit := &model.Visit{
			HostEmail:    ownerEmail,
			VisitorName:  viewer.Name,
			VisitorEmail: viewer.Email,
		}
		if err := s.visits.Create(ctx, visit); err != nil {
			return nil, fmt.Errorf("service/map: recording visit to %s: %w", ownerEmail, err)
		}
		s.logger.Info("visit recorded",
			slog.String("host", ownerEmail),
			slog.String("visitor", viewer.Email),
		)
	}

	events, err := s.events.ListByCreator(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("service/map: listing events for %s: %w", ownerEmail, err)
	}
	view.Events = events

	return view, nil
}

// CreateEvent validates and inserts a new event for the creator.
// imageURL may be empty when the upload failed or no file was attached.
func (s *MapService) CreateEvent(ctx context.Context, creator *model.User, name string, latitude, longitude float64, imageURL string) (*model.Event, error) {
	if creator == nil {
		return nil, fmt.Errorf("service/map: creator is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "event name is required")
	}
	if len(name) > MaxEventNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("event name must be %d characters or less", MaxEventNameLength))
	}

	event := &model.Event{
		Name:         name,
		Latitude:     latitude,
		Longitude:    longitude,
		ImageURL:     imageURL,
		CreatorEmail: creator.Email,
		CreatorName:  creator.Name,
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Error("failed to create event",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/map: creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("creator", event.CreatorEmail),
	)

	return event, nil
}

// DeleteEvent removes the caller's event. The delete is scoped to
// (id, caller email) in the store: targeting another user's event matches
// nothing and returns nil, and the caller cannot tell the difference.
func (s *MapService) DeleteEvent(ctx context.Context, caller *model.User, id string) error {
	if caller == nil {
		return fmt.Errorf("service/map: caller is required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "event ID is required")
	}

	if err := s.events.DeleteOwned(ctx, id, caller.Email); err != nil {
		return fmt.Errorf("service/map: deleting event %s: %w", id, err)
	}

	s.logger.Info("event delete requested",
		slog.String("id", id),
		slog.String("caller", caller.Email),
	)
	return nil
}
