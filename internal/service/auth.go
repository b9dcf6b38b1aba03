// Package service contains the business logic layer: validation, ownership
// rules, and orchestration between the repositories and the auth/upload
// collaborators. Services know nothing about HTTP; handlers translate.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/davidrq/friendmap/internal/auth"
	"github.com/davidrq/friendmap/internal/model"
	"github.com/davidrq/friendmap/internal/repository"
)

// AuthService turns provider claims into an account and a session.
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionService
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// AuthResult bundles the upserted user with the signed session token so the
// handler can set the cookie and redirect in one step.
type AuthResult struct {
	User         *model.User
	SessionToken string
}

// LoginOrRegister handles a successful OAuth callback.
//
// The user row is upserted by email: first login inserts, every later login
// updates the stored name to the latest provider claims. Calling this twice
// for the same email therefore leaves exactly one row, carrying the most
// recent name. The access token rides into the session as issued by the
// provider.
func (s *AuthService) LoginOrRegister(ctx context.Context, claims *auth.Claims, token *oauth2.Token) (*AuthResult, error) {
	if claims == nil || claims.Email == "" {
		return nil, fmt.Errorf("service/auth: claims with an email are required")
	}

	user := &model.User{
		Name:  claims.Name,
		Email: claims.Email,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", claims.Email, err)
	}

	sessionToken, err := s.sessions.Issue(user, token)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing session for %s: %w", user.Email, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, SessionToken: sessionToken}, nil
}
