package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/repository"
)

// MaxEstablishmentNameLength bounds the establishment name field.
const MaxEstablishmentNameLength = 120

// ReviewService implements the shared review feed.
type ReviewService struct {
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(reviews repository.ReviewRepository, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		logger:  logger,
	}
}

// ReviewInput is the form data for a new review. The image URL is resolved
// by the handler before the service sees it (empty when absent or failed).
type ReviewInput struct {
	EstablishmentName string
	Address           string
	Latitude          float64
	Longitude         float64
	Rating            int
	ImageURL          string
}

// Create validates the input and inserts a review authored by the session
// user, persisting the session's access token and its issue/expiry times
// alongside it.
//
// The rating is enforced to the documented range here rather than at the
// form: a review with a rating outside 0..5 never reaches the store.
func (s *ReviewService) Create(ctx context.Context, sess *auth.Session, in ReviewInput) (*model.Review, error) {
	if sess == nil || sess.AccessToken == "" {
		return nil, apperror.Forbidden("a logged-in session with token metadata is required")
	}

	name := strings.TrimSpace(in.EstablishmentName)
	if name == "" {
		return nil, apperror.ValidationFailed("establishmentName", "establishment name is required")
	}
	if len(name) > MaxEstablishmentNameLength {
		return nil, apperror.ValidationFailed("establishmentName",
			fmt.Sprintf("establishment name must be %d characters or less", MaxEstablishmentNameLength))
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, apperror.ValidationFailed("address", "address is required")
	}

	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
	}

	review := &model.Review{
		EstablishmentName: name,
		Address:           address,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		Rating:            in.Rating,
		AuthorName:        sess.User.Name,
		AuthorEmail:       sess.User.Email,
		AccessToken:       sess.AccessToken,
		TokenIssuedAt:     sess.TokenIssuedAt,
		TokenExpiresAt:    sess.TokenExpiresAt,
		ImageURL:          in.ImageURL,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("failed to create review",
			slog.String("establishment", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/review: creating review: %w", err)
	}

	s.logger.Info("review created",
		slog.String("id", review.ID),
		slog.String("author", review.AuthorEmail),
	)

	return review, nil
}

// List returns the whole feed, newest first. Reviews are public to every
// logged-in user, so there is no author filter.
func (s *ReviewService) List(ctx context.Context) ([]model.Review, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		s.logger.Error("failed to list reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/review: listing reviews: %w", err)
	}
	return reviews, nil
}

// GetByID retrieves one review.
// Returns apperror.ErrNotFound when it doesn't exist.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "review ID is required")
	}
	return s.reviews.GetByID(ctx, id)
}
