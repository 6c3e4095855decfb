// Package handler implements the portal's HTTP surface: the auth endpoints
// driving the session manager and the guarded page payloads behind the route
// guards.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
	"github.com/isukupay/waste-platform/internal/portal/authapi"
	"github.com/isukupay/waste-platform/internal/portal/metrics"
	"github.com/isukupay/waste-platform/internal/portal/middleware"
	"github.com/isukupay/waste-platform/internal/portal/session"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone,omitempty"`
	Company         string `json:"company,omitempty"`
}

// sessionResponse is returned after login and registration: the user snapshot
// plus the surface the browser should navigate to.
type sessionResponse struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

// AuthHandler drives the session lifecycle from the browser's side.
type AuthHandler struct {
	mgr *session.Manager
	log zerolog.Logger
}

func NewAuthHandler(mgr *session.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{mgr: mgr, log: log}
}

// LoginPage answers the login surface. A visitor who is already signed in is
// sent straight to their home surface instead.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess.IsAuthenticated() {
		return c.Redirect(http.StatusFound, domain.HomePath(sess.Role()))
	}
	return c.JSON(http.StatusOK, echo.Map{"page": "login"})
}

// Login authenticates the credentials against the backend and establishes the
// browser session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	sid := middleware.SessionID(c)
	sess, err := h.mgr.Login(c.Request().Context(), sid, req.Email, req.Password)
	if err != nil {
		metrics.SessionLoginsTotal.WithLabelValues("failure").Inc()
		return relayAPIError(c, err)
	}

	metrics.SessionLoginsTotal.WithLabelValues("success").Inc()
	h.log.Info().Str("email", req.Email).Str("role", sess.Role()).Msg("portal login")
	return c.JSON(http.StatusOK, sessionResponse{
		User:     sess.User,
		Redirect: domain.HomePath(sess.Role()),
	})
}

// Register creates the account and signs the browser in with the returned
// tokens, the same way Login does.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	sid := middleware.SessionID(c)
	sess, err := h.mgr.Register(c.Request().Context(), sid, ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
	})
	if err != nil {
		return relayAPIError(c, err)
	}

	return c.JSON(http.StatusCreated, sessionResponse{
		User:     sess.User,
		Redirect: domain.HomePath(sess.Role()),
	})
}

// Logout ends the session and sends the browser to the login page. It cannot
// fail from the browser's perspective: backend trouble is absorbed by the
// manager and the local session is gone either way.
func (h *AuthHandler) Logout(c echo.Context) error {
	sid := middleware.SessionID(c)
	h.mgr.Logout(c.Request().Context(), sid, middleware.SessionFrom(c))

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/login")
}

// relayAPIError forwards a backend error to the browser, preserving the
// backend's status and message when it answered at all.
func relayAPIError(c echo.Context, err error) error {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, echo.Map{"error": apiErr.Message})
	}
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "authentication service unavailable"})
}
