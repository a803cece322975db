package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/pkg/security"
)

var _ ports.AuthService = (*AuthService)(nil)

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	users  ports.CredentialStore
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.CredentialStore, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Validate returns the account matching email and password with its hash
// stripped, or nil when either does not match. Only store faults are errors.
func (s *AuthService) Validate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}
	if !security.CheckPassword(user.Password, password) {
		return nil, nil
	}

	out := user.Public()
	return &out, nil
}

// Login authenticates email and password and returns a signed token along
// with the public profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (_ *ports.LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { finishSpan(span, err) }()

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Info().Str("email", email).Msg("login for unknown account")
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !security.CheckPassword(user.Password, password) {
		s.log.Info().Int64("user_id", user.ID).Msg("login with invalid password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{AccessToken: token, User: user.Public()}, nil
}
