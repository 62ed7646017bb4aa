package dto

import "github.com/thorfins/thorfins-be/internal/models"

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	CurrencyID string `json:"currencyId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// VerifyRequest carries the emailed code. Code is untyped because clients
// send it both as a number and as a quoted string.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  any    `json:"code"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type UpdateUserRequest struct {
	CurrencyID string `json:"currencyId"`
}
