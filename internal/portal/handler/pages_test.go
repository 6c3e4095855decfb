package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/portal/authapi"
)

func seededFixture(t *testing.T, api *stubAuthAPI, user *domain.User) *fixture {
	t.Helper()
	f := newFixture(api)
	if err := f.store.Save(context.Background(), "sid-1", user, &domain.TokenPair{Access: "a1", Refresh: "r1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return f
}

func TestPageHandler_DashboardServesFreshProfile(t *testing.T) {
	stored := &domain.User{ID: "u-1", Email: "lia@example.com", Role: domain.RoleAccountant}
	fresh := &domain.User{ID: "u-1", Email: "lia@example.com", Role: domain.RoleAccountant, FirstName: "Lia"}
	api := &stubAuthAPI{currentUserFn: func(_ context.Context, sid string) (*domain.User, error) {
		if sid != "sid-1" {
			t.Errorf("sid = %q, want sid-1", sid)
		}
		return fresh, nil
	}}
	f := seededFixture(t, api, stored)
	h := NewPageHandler(f.mgr, api, zerolog.Nop())

	rec := f.do(t, h.Dashboard, http.MethodGet, "/dashboard", "", "sid-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Page string       `json:"page"`
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != "dashboard" || resp.User.FirstName != "Lia" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestPageHandler_DashboardExpiredSessionRedirects(t *testing.T) {
	api := &stubAuthAPI{currentUserFn: func(context.Context, string) (*domain.User, error) {
		return nil, authapi.ErrSessionExpired
	}}
	f := seededFixture(t, api, &domain.User{ID: "u-1", Role: domain.RoleAccountant})
	h := NewPageHandler(f.mgr, api, zerolog.Nop())

	rec := f.do(t, h.Dashboard, http.MethodGet, "/dashboard", "", "sid-1")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d %q, want 302 /login on expired session", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPageHandler_DashboardFallsBackOnTransientError(t *testing.T) {
	stored := &domain.User{ID: "u-1", Email: "lia@example.com", Role: domain.RoleAccountant}
	api := &stubAuthAPI{currentUserFn: func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("backend unreachable")
	}}
	f := seededFixture(t, api, stored)
	h := NewPageHandler(f.mgr, api, zerolog.Nop())

	rec := f.do(t, h.Dashboard, http.MethodGet, "/dashboard", "", "sid-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 from the stored snapshot", rec.Code)
	}
	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User == nil || resp.User.Email != "lia@example.com" {
		t.Errorf("expected the stored snapshot, got %+v", resp.User)
	}
}

func TestPageHandler_ProfileRefreshesSnapshot(t *testing.T) {
	stored := &domain.User{ID: "u-1", Email: "lia@example.com", Role: domain.RoleAccountant}
	fresh := &domain.User{ID: "u-1", Email: "lia@example.com", Role: domain.RoleAccountant, LastName: "Kim"}
	api := &stubAuthAPI{currentUserFn: func(context.Context, string) (*domain.User, error) {
		return fresh, nil
	}}
	f := seededFixture(t, api, stored)
	h := NewPageHandler(f.mgr, api, zerolog.Nop())

	rec := f.do(t, h.Profile, http.MethodGet, "/me", "", "sid-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.LastName != "Kim" {
		t.Errorf("snapshot not refreshed: %+v", resp.User)
	}

	user, _, _ := f.store.Load(context.Background(), "sid-1")
	if user == nil || user.LastName != "Kim" {
		t.Error("refreshed snapshot not persisted")
	}
}

func TestPageHandler_PortalServesStoredSnapshot(t *testing.T) {
	stored := &domain.User{ID: "u-2", Email: "cus@example.com", Role: domain.RoleCustomer}
	f := seededFixture(t, &stubAuthAPI{}, stored)
	h := NewPageHandler(f.mgr, &stubAuthAPI{}, zerolog.Nop())

	rec := f.do(t, h.Portal, http.MethodGet, "/portal", "", "sid-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Page string       `json:"page"`
		User *domain.User `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != "portal" || resp.User.Email != "cus@example.com" {
		t.Errorf("unexpected payload: %+v", resp)
	}
}
