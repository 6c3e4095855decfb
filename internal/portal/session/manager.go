package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

// AuthAPI is the slice of the backend auth client the manager drives.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
	Register(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// CurrentUser fetches the profile through the credentialed client; sid
	// scopes the bearer token the transport attaches.
	CurrentUser(ctx context.Context, sid string) (*domain.User, error)
}

// Manager is the single writer of session state. Every mutation goes through
// it, keeping the in-memory Session and the Store consistent.
type Manager struct {
	store Store
	api   AuthAPI
	log   zerolog.Logger
}

func NewManager(store Store, api AuthAPI, log zerolog.Logger) *Manager {
	return &Manager{store: store, api: api, log: log}
}

// Hydrate builds the request's Session from the store. Malformed or partial
// stored state has already been wiped by the store; a load failure degrades
// to an anonymous session rather than an error. Guards must only ever see a
// hydrated session.
func (m *Manager) Hydrate(ctx context.Context, sid string) *Session {
	user, tokens, err := m.store.Load(ctx, sid)
	if err != nil {
		m.log.Warn().Err(err).Msg("session load failed, treating as anonymous")
		return &Session{Hydrated: true}
	}
	return &Session{User: user, Tokens: tokens, Hydrated: true}
}

// Login authenticates against the backend and establishes the session. On
// failure the error is propagated untouched and no session state changes.
// A persistence failure after a successful login is logged, not surfaced:
// the session is valid for this request, it just won't survive a reload.
func (m *Manager) Login(ctx context.Context, sid, email, password string) (*Session, error) {
	user, tokens, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, sid, user, tokens); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist session after login")
	}
	return &Session{User: user, Tokens: tokens, Hydrated: true}, nil
}

// Register mirrors Login against the registration endpoint.
func (m *Manager) Register(ctx context.Context, sid string, in ports.RegisterInput) (*Session, error) {
	user, tokens, err := m.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, sid, user, tokens); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist session after registration")
	}
	return &Session{User: user, Tokens: tokens, Hydrated: true}, nil
}

// Logout ends the session. The backend revocation call is best-effort: its
// failure is logged and swallowed because the user's intent — being logged
// out — is honoured locally regardless. The store is cleared unconditionally.
func (m *Manager) Logout(ctx context.Context, sid string, sess *Session) {
	if sess != nil && sess.Tokens != nil && sess.Tokens.Refresh != "" {
		if err := m.api.Logout(ctx, sess.Tokens.Refresh); err != nil {
			m.log.Warn().Err(err).Msg("backend logout failed, clearing session anyway")
		}
	}

	if sess != nil {
		sess.User = nil
		sess.Tokens = nil
	}
	if err := m.store.Clear(ctx, sid); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear session store")
	}
}

// RefreshUser re-fetches the profile snapshot, leaving tokens untouched. A
// fetch failure keeps the existing snapshot — a transient error must not log
// the user out.
func (m *Manager) RefreshUser(ctx context.Context, sid string, sess *Session) {
	if sess == nil || sess.Tokens == nil || sess.Tokens.Access == "" {
		return
	}

	user, err := m.api.CurrentUser(ctx, sid)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to refresh user snapshot")
		return
	}

	sess.User = user
	if err := m.store.Save(ctx, sid, user, sess.Tokens); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist refreshed user snapshot")
	}
}
