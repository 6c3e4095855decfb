package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/isukupay/waste-platform/internal/api/metrics"
	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditRecorder
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditRecorder) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// Register creates a new customer account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, pair, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
	})
	if err != nil {
		status := http.StatusInternalServerError
		result := "error"
		switch err {
		case domain.ErrUserExists:
			status = http.StatusConflict
			result = "exists"
		case domain.ErrInvalidCredentials:
			status = http.StatusBadRequest
		}
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.audit.Record(h.entry(c, user.Email, domain.AuditRegister, ""))

	return c.JSON(http.StatusCreated, authResponse{Access: pair.Access, Refresh: pair.Refresh, User: user})
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		result := "error"
		switch err {
		case domain.ErrInvalidCredentials:
			result = "invalid_credentials"
		case domain.ErrUserInactive:
			status = http.StatusForbidden
			result = "inactive"
		case domain.ErrUserNotFound:
			status = http.StatusNotFound
			result = "invalid_credentials"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		h.audit.Record(h.entry(c, req.Email, domain.AuditLoginFailed, err.Error()))
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.audit.Record(h.entry(c, user.Email, domain.AuditLogin, ""))

	return c.JSON(http.StatusOK, authResponse{Access: pair.Access, Refresh: pair.Refresh, User: user})
}

// Logout revokes a refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "Refresh token to revoke"
// @Success      204   "revoked"
// @Failure      400   {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}

	metrics.LogoutsTotal.Inc()
	email, _ := c.Get("email").(string)
	h.audit.Record(h.entry(c, email, domain.AuditLogout, ""))

	return c.NoContent(http.StatusNoContent)
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	access, user, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		result := "error"
		switch err {
		case domain.ErrTokenRevoked:
			result = "revoked"
		case domain.ErrInvalidToken:
			result = "invalid"
		}
		metrics.TokenRefreshesTotal.WithLabelValues(result).Inc()
		h.audit.Record(h.entry(c, "", domain.AuditRefreshDenied, err.Error()))
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	h.audit.Record(h.entry(c, user.Email, domain.AuditTokenRefresh, ""))
	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}

// CurrentUser returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) entry(c echo.Context, email, action, detail string) domain.AuditEntry {
	return domain.AuditEntry{
		UserEmail: email,
		Action:    action,
		Detail:    detail,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
