package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/storage"
)

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, t.amount, t.description, t.type,
		t.created_at, t.updated_at,
		c.id, c.user_id, c.name, c.icon, c.editable, c.created_at, c.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// ListTransactions returns the user's transactions with categories attached.
func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, transactionSelect+` WHERE t.user_id = $1 ORDER BY t.created_at;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// GetTransaction fetches one transaction with its category attached.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	return scanTransaction(s.pool.QueryRow(ctx, transactionSelect+` WHERE t.id = $1;`, id))
}

// CreateTransaction inserts a new transaction row.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const query = `
		INSERT INTO transactions (id, user_id, category_id, amount, description, type)
		VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := s.pool.Exec(ctx, query, tx.ID, tx.UserID, tx.CategoryID, tx.Amount, tx.Description, tx.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.GetTransaction(ctx, tx.ID)
}

// UpdateTransaction rewrites amount, description, and category.
func (s *Store) UpdateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const query = `
		UPDATE transactions SET amount = $2, description = $3, category_id = $4, updated_at = NOW()
		WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, query, tx.ID, tx.Amount, tx.Description, tx.CategoryID)
	if err != nil {
		return models.Transaction{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Transaction{}, storage.ErrNotFound
	}
	return s.GetTransaction(ctx, tx.ID)
}

// DeleteTransaction removes a transaction row.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Amounts aggregates income and expense totals for the user.
func (s *Store) Amounts(ctx context.Context, userID uuid.UUID) (models.Amounts, error) {
	const query = `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1;`
	var amounts models.Amounts
	err := s.pool.QueryRow(ctx, query, userID).Scan(&amounts.TotalIncome, &amounts.TotalExpense)
	if err != nil {
		return models.Amounts{}, err
	}
	amounts.Total = amounts.TotalIncome - amounts.TotalExpense
	return amounts, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var tx models.Transaction
	var cat models.Category
	err := row.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &tx.Description, &tx.Type,
		&tx.CreatedAt, &tx.UpdatedAt,
		&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.Editable, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	tx.Category = &cat
	return tx, nil
}
