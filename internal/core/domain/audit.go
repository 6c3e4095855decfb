package domain

import "time"

// Audit actions recorded by the auth layer.
const (
	AuditLogin         = "login"
	AuditLoginFailed   = "login_failed"
	AuditRegister      = "register"
	AuditLogout        = "logout"
	AuditTokenRefresh  = "token_refresh"
	AuditRefreshDenied = "token_refresh_denied"
)

// AuditEntry records a single security-relevant action taken by (or against)
// a user account.
type AuditEntry struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
