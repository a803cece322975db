package ports

import (
	"context"

	"github.com/organizae/users-service/internal/core/domain"
)

// UserRepository is the persistence contract for user accounts.
//
// FindAll and FindByID never load the password hash; FindByEmail is the only
// lookup that returns it. Lookups of missing records return
// domain.ErrUserNotFound and writes that collide on email return
// domain.ErrEmailInUse.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update persists name, email and role. The password column is only
	// written when user.Password is non-empty.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the record physically and reports the affected rows.
	Delete(ctx context.Context, id int64) (int64, error)
}

// CredentialStore is the read side used by credential verification.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
