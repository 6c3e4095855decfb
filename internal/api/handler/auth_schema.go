package handler

import "github.com/isukupay/waste-platform/internal/core/domain"

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone,omitempty"`
	Company         string `json:"company,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// authResponse mirrors the login/register payload consumed by the portal:
// both tokens at the top level next to the user snapshot.
type authResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user"`
}

type refreshResponse struct {
	Access string `json:"access"`
}
