package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/storage"
)

const userColumns = `id, name, email, password_hash, verified, verify_code, currency_id, created_at, updated_at`

// CreateUser inserts a new user row. The email uniqueness constraint is the
// single source of truth for duplicates; a violation surfaces as
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, email, password_hash, verified, verify_code, currency_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Verified, user.VerifyCode, user.CurrencyID)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUserByEmail fetches a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// GetUserByID fetches a user with its currency attached.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.password_hash, u.verified, u.verify_code,
			u.currency_id, u.created_at, u.updated_at,
			c.id, c.name, c.symbol, c.code
		FROM users u
		JOIN currencies c ON c.id = u.currency_id
		WHERE u.id = $1;`
	var user models.User
	var currency models.Currency
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Verified, &user.VerifyCode,
		&user.CurrencyID, &user.CreatedAt, &user.UpdatedAt,
		&currency.ID, &currency.Name, &currency.Symbol, &currency.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Currency = &currency
	return user, nil
}

// MarkVerified flips the verified flag exactly once and stamps updated_at.
func (s *Store) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE users SET verified = TRUE, updated_at = NOW() WHERE id = $1;`
	return s.execUser(ctx, query, id)
}

// SetVerifyCode stores a fresh code with the given timestamp.
func (s *Store) SetVerifyCode(ctx context.Context, id uuid.UUID, code int, updatedAt time.Time) error {
	const query = `UPDATE users SET verify_code = $2, updated_at = $3 WHERE id = $1;`
	return s.execUser(ctx, query, id, code, updatedAt)
}

// SetPassword replaces the stored digest and stamps updated_at.
func (s *Store) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1;`
	return s.execUser(ctx, query, id, passwordHash)
}

// SetCurrency updates the user's currency and returns the fresh record.
func (s *Store) SetCurrency(ctx context.Context, id, currencyID uuid.UUID) (models.User, error) {
	const query = `UPDATE users SET currency_id = $2, updated_at = NOW() WHERE id = $1;`
	if err := s.execUser(ctx, query, id, currencyID); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) execUser(ctx context.Context, query string, args ...any) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Verified,
		&user.VerifyCode, &user.CurrencyID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
