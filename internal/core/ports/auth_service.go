package ports

import (
	"context"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Company   string
}

// AuthService implements the account and token lifecycle exposed by the API.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
	// Logout revokes the refresh token. Invalid tokens are ignored: the
	// caller's intent is to end the session either way.
	Logout(ctx context.Context, refreshToken string) error
	// Refresh exchanges a valid, non-revoked refresh token for a new access
	// token, returning the account it was issued to. The refresh token itself
	// is left untouched.
	Refresh(ctx context.Context, refreshToken string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
