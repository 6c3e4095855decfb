package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenClaims is the JWT payload carried by both access and refresh tokens.
// TokenType discriminates the two so a refresh token can never be replayed as
// an access token.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256 access/refresh token pair.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a fresh access/refresh pair for the user.
func (s *TokenService) IssuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.issue(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess mints a new access token only, used by the refresh flow.
func (s *TokenService) IssueAccess(user *domain.User) (string, error) {
	return s.issue(user, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) issue(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      domain.EffectiveRole(user),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, additionally enforcing the expected
// token type. Any parse or validation failure maps to ErrInvalidToken.
func (s *TokenService) Verify(tokenString, wantType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
