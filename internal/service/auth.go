// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and context, not HTTP types, and return domain
// errors (apperror), not status codes. The handler layer translates in both
// directions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/memories-api/internal/apperror"
	"github.com/sakif/memories-api/internal/auth"
	"github.com/sakif/memories-api/internal/model"
	"github.com/sakif/memories-api/internal/repository"
)

// GitHubExchanger trades an OAuth authorization code for a validated GitHub
// profile. *auth.GitHubProvider implements it in production; tests supply a
// mock so no network calls happen.
type GitHubExchanger interface {
	Exchange(ctx context.Context, code string, isMobile bool) (*auth.GitHubProfile, error)
}

// AuthService handles registration: OAuth code exchange, lazy user creation,
// and bearer token issuance.
type AuthService struct {
	users  repository.UserRepository
	github GitHubExchanger
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	github GitHubExchanger,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		github: github,
		tokens: tokens,
		logger: logger,
	}
}

// Register completes the OAuth login flow for an authorization code.
//
//  1. Exchange the code with GitHub (isMobile picks the credential pair)
//  2. Look up the local user by GitHub ID; create one on first login.
//     On repeat logins the stored row is reused UNCHANGED: name and avatar
//     are never refreshed from the provider. Registration is therefore
//     idempotent on the GitHub ID, with at most one row per account.
//  3. Sign a 30-day bearer token for the user.
//
// Returns the signed token string.
func (s *AuthService) Register(ctx context.Context, code string, isMobile bool) (string, error) {
	profile, err := s.github.Exchange(ctx, code, isMobile)
	if err != nil {
		return "", fmt.Errorf("service/auth: exchanging code: %w", err)
	}

	user, err := s.users.GetByGitHubID(ctx, *profile.ID)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		// First login for this GitHub account: create the local record.
		user = &model.User{
			GitHubID:  *profile.ID,
			Login:     *profile.Login,
			Name:      *profile.Name,
			AvatarURL: *profile.AvatarURL,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", fmt.Errorf("service/auth: creating user (githubID=%d): %w", user.GitHubID, err)
		}
		s.logger.Info("user registered",
			slog.String("userID", user.ID),
			slog.String("login", user.Login),
		)
	case err != nil:
		return "", fmt.Errorf("service/auth: looking up user (githubID=%d): %w", *profile.ID, err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// GetUserByID returns the user for the given internal ID. Used by the /me
// handler after the middleware validates the JWT and extracts the userID
// from the token's subject claim.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
