package ports

import (
	"context"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns accounts newest-first, capped at limit.
	List(ctx context.Context, limit int64) ([]*domain.User, error)
}
