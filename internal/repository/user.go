package repository

import (
	"context"

	"github.com/ErlanBelekov/blog-platform/internal/domain"
)

// UserRepository is the credential store. Implementations must enforce email
// uniqueness atomically and return domain.ErrEmailAlreadyExists on conflict.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
}
