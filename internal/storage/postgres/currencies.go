package postgres

import (
	"context"

	"github.com/thorfins/thorfins-be/internal/models"
)

// ListCurrencies returns every seeded currency.
func (s *Store) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, symbol, code FROM currencies ORDER BY code;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	currencies := []models.Currency{}
	for rows.Next() {
		var c models.Currency
		if err := rows.Scan(&c.ID, &c.Name, &c.Symbol, &c.Code); err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}
