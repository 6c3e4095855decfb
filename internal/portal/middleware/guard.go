// Package middleware carries the portal's session hydration and route guards.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/portal/metrics"
	"github.com/isukupay/waste-platform/internal/portal/session"
)

const (
	// SessionCookie names the browser cookie carrying the session id.
	SessionCookie = "portal_sid"

	sessionContextKey = "portal_session"
	sidContextKey     = "portal_sid"
)

// Hydrate resolves the request's session before any guard runs. A missing
// cookie gets a fresh session id, so every request downstream has one. Guards
// rely on this ordering: they must never see an unhydrated session.
func Hydrate(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionIDFromCookie(c)
			if sid == "" {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := mgr.Hydrate(c.Request().Context(), sid)
			c.Set(sidContextKey, sid)
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

func sessionIDFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// SessionFrom returns the hydrated session placed by Hydrate, or nil when the
// middleware did not run.
func SessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionContextKey).(*session.Session)
	return sess
}

// SessionID returns the request's session id.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sidContextKey).(string)
	return sid
}

// guard is the shared decision pipeline. The ordering is deliberate and
// load-bearing: hydration check first, then authentication, then the role
// predicate. A role is never inspected before authentication is established,
// so an anonymous visitor always lands on the login page rather than a
// role-specific redirect.
func guard(name string, allow func(role string) bool, denyTarget func(role string) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !sess.Hydrated {
				// No authorization decision can be made yet.
				metrics.GuardDecisionsTotal.WithLabelValues(name, "loading").Inc()
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "loading"})
			}

			if !sess.IsAuthenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues(name, "unauthenticated").Inc()
				return c.Redirect(http.StatusFound, "/login")
			}

			role := sess.Role()
			if !allow(role) {
				metrics.GuardDecisionsTotal.WithLabelValues(name, "denied").Inc()
				return c.Redirect(http.StatusFound, denyTarget(role))
			}

			metrics.GuardDecisionsTotal.WithLabelValues(name, "allowed").Inc()
			return next(c)
		}
	}
}

// Staff admits the back-office roles to /dashboard. Everyone else
// authenticated is sent to their customer portal.
func Staff() echo.MiddlewareFunc {
	return guard("staff", domain.IsStaff, func(string) string { return "/portal" })
}

// Customer admits anyone who is not staff to /portal, unknown roles included.
// Staff members are sent back to their dashboard. Collectors pass: /portal is
// the only surface a denied collector could be redirected to, so excluding
// them here would bounce them between the two guards forever.
func Customer() echo.MiddlewareFunc {
	return guard("customer", func(role string) bool {
		return !domain.IsStaff(role)
	}, func(string) string { return "/dashboard" })
}

// Collector admits collectors and company admins to /collector. A denied
// customer goes to the customer portal, a denied staff member to the
// dashboard — each lands on a surface they are actually allowed to use.
func Collector() echo.MiddlewareFunc {
	return guard("collector", domain.CollectorAllowed, func(role string) string {
		if domain.IsCustomer(role) {
			return "/portal"
		}
		return "/dashboard"
	})
}

// SystemAdmin admits platform operators only. Everyone else is sent to their
// own home surface.
func SystemAdmin() echo.MiddlewareFunc {
	return guard("system_admin", func(role string) bool {
		return role == domain.RoleSystemAdmin
	}, domain.HomePath)
}

// Protected admits the listed roles and answers 403 inline instead of
// redirecting. Used for API-style portal routes where a redirect would be
// meaningless to the caller. With no roles listed it only requires
// authentication.
func Protected(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil || !sess.Hydrated {
				metrics.GuardDecisionsTotal.WithLabelValues("protected", "loading").Inc()
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "loading"})
			}

			if !sess.IsAuthenticated() {
				metrics.GuardDecisionsTotal.WithLabelValues("protected", "unauthenticated").Inc()
				return c.Redirect(http.StatusFound, "/login")
			}

			if len(allowed) > 0 {
				if _, ok := allowed[sess.Role()]; !ok {
					metrics.GuardDecisionsTotal.WithLabelValues("protected", "denied").Inc()
					return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
				}
			}

			metrics.GuardDecisionsTotal.WithLabelValues("protected", "allowed").Inc()
			return next(c)
		}
	}
}
