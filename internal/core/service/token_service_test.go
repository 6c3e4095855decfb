package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

func TestTokenService_IssueAndVerifyPair(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, time.Hour)
	user := &domain.User{
		ID:          "u1",
		Email:       "alice@example.com",
		RoleDetails: &domain.Role{Name: domain.RoleCollector},
	}

	pair, err := svc.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	access, err := svc.Verify(pair.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("access token did not verify: %v", err)
	}
	if access.UserID != "u1" || access.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", access)
	}
	if access.Role != domain.RoleCollector {
		t.Fatalf("claims must carry the effective role, got %q", access.Role)
	}

	refresh, err := svc.Verify(pair.Refresh, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("refresh token did not verify: %v", err)
	}
	if refresh.ID == "" {
		t.Fatalf("refresh token must carry a JTI for revocation")
	}
	if refresh.ID == access.ID {
		t.Fatalf("access and refresh must have distinct JTIs")
	}
}

func TestTokenService_Verify_TypeMismatch(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, time.Hour)
	pair, err := svc.IssuePair(&domain.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}

	if _, err := svc.Verify(pair.Access, TokenTypeRefresh); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.Verify(pair.Refresh, TokenTypeAccess); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Minute, time.Hour)
	verifier := NewTokenService("secret-b", time.Minute, time.Hour)

	pair, err := issuer.IssuePair(&domain.User{ID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("IssuePair returned error: %v", err)
	}
	if _, err := verifier.Verify(pair.Access, TokenTypeAccess); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Minute, time.Hour)

	claims := TokenClaims{
		UserID:    "u1",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed, TokenTypeAccess); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
