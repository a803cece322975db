package ports

import (
	"context"

	"github.com/organizae/users-service/internal/core/domain"
)

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string
	User        domain.User
}

type AuthService interface {
	Validate(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// TokenIssuer signs access tokens for a principal.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

// TokenVerifier turns a bearer token back into a principal.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}
