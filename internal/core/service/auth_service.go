package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

// TokenDenylist abstracts the revoked-refresh-token store (Redis).
type TokenDenylist interface {
	IsDenied(ctx context.Context, jti string) (bool, error)
	Deny(ctx context.Context, jti string, until time.Time) error
}

type authService struct {
	repo     ports.UserRepository
	tokens   *TokenService
	denylist TokenDenylist
	log      zerolog.Logger
}

// NewAuthService returns an AuthService implementation.
func NewAuthService(repo ports.UserRepository, tokens *TokenService, denylist TokenDenylist, log zerolog.Logger) ports.AuthService {
	return &authService{repo: repo, tokens: tokens, denylist: denylist, log: log}
}

// Register creates a customer account and signs the new user in.
// Self-registration always lands in the customer role; privileged roles are
// assigned by platform operators, never claimed at signup.
func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if in.Email == "" || in.Password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Company:      in.Company,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(created)
	if err != nil {
		return nil, nil, err
	}
	return created, pair, nil
}

// Login validates credentials and returns the user with a fresh token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the refresh token by denylisting its JTI until natural
// expiry. An unparsable token is ignored: the session is unusable anyway.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		s.log.Debug().Msg("logout with invalid refresh token ignored")
		return nil
	}
	return s.denylist.Deny(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, *domain.User, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", nil, err
	}

	denied, err := s.denylist.IsDenied(ctx, claims.ID)
	if err != nil {
		s.log.Warn().Err(err).Msg("denylist check failed, rejecting refresh")
		return "", nil, domain.ErrInvalidToken
	}
	if denied {
		return "", nil, domain.ErrTokenRevoked
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", nil, err
	}
	return access, user, nil
}

// CurrentUser returns the account snapshot for the authenticated user.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
