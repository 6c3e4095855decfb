package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AdminHandler serves the back-office listings. Routes using it sit behind
// the RBAC middleware; the handler itself does no role checking.
type AdminHandler struct {
	users ports.UserRepository
	audit ports.AuditRepository
}

func NewAdminHandler(users ports.UserRepository, audit ports.AuditRepository) *AdminHandler {
	return &AdminHandler{users: users, audit: audit}
}

// ListUsers returns the newest accounts.
//
// @Summary      List user accounts
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum accounts returned (default 50, max 200)"
// @Success      200    {array}   domain.User
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Security     BearerAuth
// @Router       /users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), listLimit(c))
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// ListAuditLogs returns the newest audit entries, optionally filtered by
// account email.
//
// @Summary      List audit log entries
// @Tags         admin
// @Produce      json
// @Param        limit  query     int     false  "Maximum entries returned (default 50, max 200)"
// @Param        email  query     string  false  "Filter by account email"
// @Success      200    {array}   domain.AuditEntry
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c echo.Context) error {
	entries, err := h.audit.List(c.Request().Context(), c.QueryParam("email"), listLimit(c))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func listLimit(c echo.Context) int64 {
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
