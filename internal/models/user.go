package models

import (
	"time"

	"github.com/google/uuid"
)

// User captures application-facing fields for an account identity.
// The password hash and the pending verification code never leave the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	VerifyCode   int       `json:"-"`
	CurrencyID   uuid.UUID `json:"currencyId"`
	Currency     *Currency `json:"currency,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
