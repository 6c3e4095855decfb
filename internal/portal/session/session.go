// Package session holds the portal's per-browser authentication state: the
// token store persisting it across requests, the manager mutating it, and the
// Session snapshot the route guards decide on.
package session

import (
	"github.com/isukupay/waste-platform/internal/core/domain"
)

// Session is the authenticated state hydrated from the store for one request.
// User and Tokens are set and cleared together; after hydration completes the
// two are never independently nil.
type Session struct {
	User     *domain.User
	Tokens   *domain.TokenPair
	Hydrated bool
}

// IsAuthenticated reports whether the session carries both a user snapshot
// and a token pair.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil && s.Tokens != nil
}

// Role resolves the effective role of the session's user; empty when
// anonymous.
func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	return domain.EffectiveRole(s.User)
}
