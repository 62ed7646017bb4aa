package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types accepted by the API.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// ValidTransactionType reports whether t is one of the accepted types.
func ValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	CategoryID  uuid.UUID `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	Amount      float64   `json:"amount"`
	Description *string   `json:"desc"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Amounts is the aggregate returned by the reports endpoint.
type Amounts struct {
	Total        float64 `json:"total"`
	TotalExpense float64 `json:"totalExpense"`
	TotalIncome  float64 `json:"totalIncome"`
}
