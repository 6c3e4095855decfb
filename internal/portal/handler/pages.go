package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/portal/authapi"
	"github.com/isukupay/waste-platform/internal/portal/middleware"
	"github.com/isukupay/waste-platform/internal/portal/session"
)

// PageHandler serves the guarded surfaces. Each handler runs behind its guard,
// so by the time one executes the session is hydrated, authenticated, and
// role-checked.
type PageHandler struct {
	mgr *session.Manager
	api session.AuthAPI
	log zerolog.Logger
}

func NewPageHandler(mgr *session.Manager, api session.AuthAPI, log zerolog.Logger) *PageHandler {
	return &PageHandler{mgr: mgr, api: api, log: log}
}

// Dashboard is the staff surface. It fetches a fresh profile through the
// credentialed client so a role change on the backend is reflected without a
// re-login; if the silent refresh behind that call has given up, the session
// is over and the browser goes back to login.
func (h *PageHandler) Dashboard(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	sid := middleware.SessionID(c)

	user, err := h.api.CurrentUser(c.Request().Context(), sid)
	if err != nil {
		if errors.Is(err, authapi.ErrSessionExpired) {
			return c.Redirect(http.StatusFound, "/login")
		}
		// Transient backend trouble: serve the stored snapshot.
		h.log.Warn().Err(err).Msg("profile fetch failed, serving stored snapshot")
		user = sess.User
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page": "dashboard",
		"user": user,
	})
}

// Portal is the customer surface.
func (h *PageHandler) Portal(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, echo.Map{
		"page": "portal",
		"user": sess.User,
	})
}

// Collector is the field-operations surface.
func (h *PageHandler) Collector(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, echo.Map{
		"page": "collector",
		"user": sess.User,
	})
}

// SystemAdmin is the platform-operator surface.
func (h *PageHandler) SystemAdmin(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, echo.Map{
		"page": "system-admin",
		"user": sess.User,
	})
}

// Profile refreshes and returns the session's user snapshot. A failed refresh
// falls back to the stored snapshot; the manager never drops a session over a
// transient fetch error.
func (h *PageHandler) Profile(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	sid := middleware.SessionID(c)

	h.mgr.RefreshUser(c.Request().Context(), sid, sess)
	return c.JSON(http.StatusOK, echo.Map{"user": sess.User})
}
