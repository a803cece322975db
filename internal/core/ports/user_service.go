package ports

import (
	"context"

	"github.com/organizae/users-service/internal/core/domain"
)

// CreateUserInput carries a registration request.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService defines the user lifecycle use cases.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindOne(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Remove(ctx context.Context, id int64) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
