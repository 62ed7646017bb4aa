package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups transactions. Global categories have a nil UserID and are
// seeded with Editable=false; user-created categories are always editable.
type Category struct {
	ID          uuid.UUID     `json:"id"`
	UserID      *uuid.UUID    `json:"userId"`
	Name        string        `json:"name"`
	Icon        string        `json:"icon"`
	Editable    bool          `json:"editable"`
	Transaction []Transaction `json:"transaction"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
