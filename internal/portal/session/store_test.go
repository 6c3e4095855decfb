package session

import (
	"context"
	"testing"

	"github.com/isukupay/waste-platform/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "u-1",
		Email: "ana@example.com",
		Role:  domain.RoleAccountant,
	}
}

func testTokens() *domain.TokenPair {
	return &domain.TokenPair{Access: "acc-1", Refresh: "ref-1"}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Save(ctx, "sid-1", testUser(), testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	user, tokens, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user == nil || user.Email != "ana@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
	if tokens == nil || tokens.Access != "acc-1" || tokens.Refresh != "ref-1" {
		t.Errorf("unexpected tokens: %+v", tokens)
	}
}

func TestMemoryStore_LoadUnknownSessionIsEmpty(t *testing.T) {
	user, tokens, err := NewMemoryStore().Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user != nil || tokens != nil {
		t.Errorf("expected empty session, got user=%v tokens=%v", user, tokens)
	}
}

func TestMemoryStore_PartialStateIsWiped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "sid-1", testUser(), testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	store.DropTokens("sid-1")

	user, tokens, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user != nil || tokens != nil {
		t.Errorf("half-present session must read as empty, got user=%v tokens=%v", user, tokens)
	}

	// The surviving half must have been wiped too.
	user, _, _ = store.Load(ctx, "sid-1")
	if user != nil {
		t.Errorf("user half survived the wipe: %+v", user)
	}
}

func TestMemoryStore_MalformedStateIsWiped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "sid-1", testUser(), testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	store.CorruptUser("sid-1")

	user, tokens, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user != nil || tokens != nil {
		t.Errorf("malformed session must read as empty, got user=%v tokens=%v", user, tokens)
	}
}

func TestMemoryStore_SaveTokensKeepsUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "sid-1", testUser(), testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.SaveTokens(ctx, "sid-1", &domain.TokenPair{Access: "acc-2", Refresh: "ref-1"}); err != nil {
		t.Fatalf("save tokens: %v", err)
	}

	user, tokens, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if user == nil || user.ID != "u-1" {
		t.Errorf("user snapshot lost on token rotation: %+v", user)
	}
	if tokens.Access != "acc-2" || tokens.Refresh != "ref-1" {
		t.Errorf("unexpected tokens after rotation: %+v", tokens)
	}
}

func TestMemoryStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, "sid-1", testUser(), testTokens()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	user, tokens, _ := store.Load(ctx, "sid-1")
	if user != nil || tokens != nil {
		t.Errorf("session survived clear: user=%v tokens=%v", user, tokens)
	}
}

func TestSession_IsAuthenticated(t *testing.T) {
	cases := []struct {
		name string
		sess *Session
		want bool
	}{
		{"nil session", nil, false},
		{"anonymous", &Session{Hydrated: true}, false},
		{"user without tokens", &Session{User: testUser(), Hydrated: true}, false},
		{"tokens without user", &Session{Tokens: testTokens(), Hydrated: true}, false},
		{"full session", &Session{User: testUser(), Tokens: testTokens(), Hydrated: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sess.IsAuthenticated(); got != tc.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tc.want)
			}
		})
	}
}
