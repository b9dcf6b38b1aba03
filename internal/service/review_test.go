package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/davidrq/friendmap/internal/apperror"
	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/model"
)

type mockReviewRepo struct {
	reviews map[string]*model.Review
	nextID  int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[string]*model.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	m.nextID++
	review.ID = fmt.Sprintf("review-%d", m.nextID)
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockReviewRepo) List(_ context.Context) ([]model.Review, error) {
	result := make([]model.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id string) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, apperror.NotFound("review", id)
	}
	result := *r
	return &result, nil
}

func newTestReviewService(t *testing.T) (*ReviewService, *mockReviewRepo) {
	t.Helper()
	repo := newMockReviewRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewReviewService(repo, logger), repo
}

func testSession() *auth.Session {
	issued := time.Now().Add(-time.Minute)
	return &auth.Session{
		User:           model.User{ID: "u-1", Name: "Ana", Email: "ana@example.com"},
		AccessToken:    "ya29.token",
		TokenIssuedAt:  issued,
		TokenExpiresAt: issued.Add(time.Hour),
	}
}

func validInput() ReviewInput {
	return ReviewInput{
		EstablishmentName: "Casa Paco",
		Address:           "Calle Mayor 1",
		Latitude:          40.415,
		Longitude:         -3.707,
		Rating:            4,
	}
}

func TestReviewCreate_Success(t *testing.T) {
	svc, _ := newTestReviewService(t)
	sess := testSession()

	review, err := svc.Create(context.Background(), sess, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if review.ID == "" {
		t.Error("expected review to have an ID")
	}
	if review.AuthorEmail != "ana@example.com" {
		t.Errorf("AuthorEmail = %q, want ana@example.com", review.AuthorEmail)
	}
	if review.AuthorName != "Ana" {
		t.Errorf("AuthorName = %q, want Ana", review.AuthorName)
	}
}

func TestReviewCreate_CopiesTokenMetadata(t *testing.T) {
	svc, _ := newTestReviewService(t)
	sess := testSession()

	review, err := svc.Create(context.Background(), sess, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if review.AccessToken != sess.AccessToken {
		t.Errorf("AccessToken = %q, want the session's token", review.AccessToken)
	}
	if !review.TokenIssuedAt.Equal(sess.TokenIssuedAt) {
		t.Errorf("TokenIssuedAt = %v, want %v", review.TokenIssuedAt, sess.TokenIssuedAt)
	}
	if !review.TokenExpiresAt.Equal(sess.TokenExpiresAt) {
		t.Errorf("TokenExpiresAt = %v, want %v", review.TokenExpiresAt, sess.TokenExpiresAt)
	}
}

func TestReviewCreate_NilSession(t *testing.T) {
	svc, _ := newTestReviewService(t)

	_, err := svc.Create(context.Background(), nil, validInput())
	if err == nil {
		t.Fatal("Create() should error without a session")
	}
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestReviewCreate_SessionWithoutToken(t *testing.T) {
	svc, _ := newTestReviewService(t)
	sess := testSession()
	sess.AccessToken = ""

	_, err := svc.Create(context.Background(), sess, validInput())
	if err == nil {
		t.Fatal("Create() should error when the session carries no token")
	}
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestReviewCreate_RatingBounds(t *testing.T) {
	svc, _ := newTestReviewService(t)
	sess := testSession()

	for _, rating := range []int{model.MinRating - 1, model.MaxRating + 1} {
		in := validInput()
		in.Rating = rating
		_, err := svc.Create(context.Background(), sess, in)
		if err == nil {
			t.Fatalf("Create() with rating %d should fail", rating)
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("rating %d: error = %v, want ErrValidation", rating, err)
		}
	}

	for _, rating := range []int{model.MinRating, model.MaxRating} {
		in := validInput()
		in.Rating = rating
		if _, err := svc.Create(context.Background(), sess, in); err != nil {
			t.Errorf("Create() with boundary rating %d error = %v", rating, err)
		}
	}
}

func TestReviewCreate_EmptyEstablishmentName(t *testing.T) {
	svc, _ := newTestReviewService(t)
	in := validInput()
	in.EstablishmentName = "  "

	_, err := svc.Create(context.Background(), testSession(), in)
	if err == nil {
		t.Fatal("Create() should error on blank establishment name")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestReviewCreate_NameTooLong(t *testing.T) {
	svc, _ := newTestReviewService(t)
	in := validInput()
	in.EstablishmentName = strings.Repeat("a", MaxEstablishmentNameLength+1)

	_, err := svc.Create(context.Background(), testSession(), in)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestReviewCreate_EmptyAddress(t *testing.T) {
	svc, _ := newTestReviewService(t)
	in := validInput()
	in.Address = ""

	_, err := svc.Create(context.Background(), testSession(), in)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestReviewList(t *testing.T) {
	svc, _ := newTestReviewService(t)
	sess := testSession()

	for _, name := range []string{"Casa Paco", "Bar Lola"} {
		in := validInput()
		in.EstablishmentName = name
		if _, err := svc.Create(context.Background(), sess, in); err != nil {
			t.Fatalf("setup: Create(%q) error = %v", name, err)
		}
	}

	reviews, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("List() returned %d reviews, want 2", len(reviews))
	}
}

func TestReviewGetByID_NotFound(t *testing.T) {
	svc, _ := newTestReviewService(t)

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestReviewGetByID_EmptyID(t *testing.T) {
	svc, _ := newTestReviewService(t)

	_, err := svc.GetByID(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
