package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thorfins/thorfins-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// GetUserByID loads the user with its currency attached.
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	// MarkVerified flips the verified flag and stamps updated_at.
	MarkVerified(ctx context.Context, id uuid.UUID) error
	// SetVerifyCode stores a fresh code and stamps updated_at.
	SetVerifyCode(ctx context.Context, id uuid.UUID, code int, updatedAt time.Time) error
	// SetPassword replaces the stored digest and stamps updated_at.
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// SetCurrency updates the user's currency and returns the fresh record.
	SetCurrency(ctx context.Context, id, currencyID uuid.UUID) (models.User, error)
}

// CategoryStore captures persistence operations for categories. List and Get
// attach only the given user's transactions to each category.
type CategoryStore interface {
	// ListCategories returns the user's own categories plus global ones.
	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	GetCategory(ctx context.Context, id, userID uuid.UUID) (models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name, icon string) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// TransactionStore captures persistence operations for transactions.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error)
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	// Amounts aggregates the user's income and expense totals.
	Amounts(ctx context.Context, userID uuid.UUID) (models.Amounts, error)
}

// CurrencyStore lists the available currencies.
type CurrencyStore interface {
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
}
