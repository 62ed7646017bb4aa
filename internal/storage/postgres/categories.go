package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/storage"
)

const categoryColumns = `id, user_id, name, icon, editable, created_at, updated_at`

// ListCategories returns the user's own categories plus the global ones, each
// carrying only that user's transactions.
func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	const query = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at;`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		index[cat.ID] = len(categories)
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	txs, err := s.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		tx.Category = nil
		if i, ok := index[tx.CategoryID]; ok {
			categories[i].Transaction = append(categories[i].Transaction, tx)
		}
	}
	return categories, nil
}

// GetCategory fetches one category with the given user's transactions attached.
// Ownership is not checked here; handlers decide what a mismatch means.
func (s *Store) GetCategory(ctx context.Context, id, userID uuid.UUID) (models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`
	cat, err := scanCategory(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Category{}, err
	}

	const txQuery = `
		SELECT id, user_id, category_id, amount, description, type, created_at, updated_at
		FROM transactions
		WHERE category_id = $1 AND user_id = $2
		ORDER BY created_at;`
	rows, err := s.pool.Query(ctx, txQuery, id, userID)
	if err != nil {
		return models.Category{}, err
	}
	defer rows.Close()

	cat.Transaction = []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &tx.Description,
			&tx.Type, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return models.Category{}, err
		}
		cat.Transaction = append(cat.Transaction, tx)
	}
	if err := rows.Err(); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// CreateCategory inserts a new category row.
func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	const query = `
		INSERT INTO categories (id, user_id, name, icon, editable)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns + `;`
	row := s.pool.QueryRow(ctx, query,
		category.ID, category.UserID, category.Name, category.Icon, category.Editable)
	return scanCategory(row)
}

// UpdateCategory renames a category and stamps updated_at.
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, name, icon string) (models.Category, error) {
	const query = `
		UPDATE categories SET name = $2, icon = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns + `;`
	return scanCategory(s.pool.QueryRow(ctx, query, id, name, icon))
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var cat models.Category
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &cat.Editable,
		&cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, err
	}
	cat.Transaction = []models.Transaction{}
	return cat, nil
}
