package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thorfins/thorfins-be/internal/storage"
)

// Compile-time checks that Store satisfies every storage interface.
var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.CategoryStore    = (*Store)(nil)
	_ storage.TransactionStore = (*Store)(nil)
	_ storage.CurrencyStore    = (*Store)(nil)
)

// Store provides Postgres-backed persistence for all resources.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and applies migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS currencies (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL,
			code TEXT UNIQUE NOT NULL
		);`,
		`INSERT INTO currencies (id, name, symbol, code) VALUES
			('0c7f8f2a-1f7d-4e62-9a30-0a30a383be61', 'US Dollar', '$', 'USD'),
			('7a9be6f3-58d5-4f8e-8f53-0f0a6f1a2b11', 'Euro', E'€', 'EUR'),
			('c2f4e9d0-93a1-44f5-b1c8-6d9a2e7f3c42', 'Mexican Peso', '$', 'MXN'),
			('e81d22a5-6c41-4b02-b3d7-55d13c6f9a87', 'British Pound', E'£', 'GBP')
			ON CONFLICT (code) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			verify_code INT NOT NULL,
			currency_id UUID NOT NULL REFERENCES currencies(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			user_id UUID REFERENCES users(id),
			name TEXT NOT NULL,
			icon TEXT NOT NULL,
			editable BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`INSERT INTO categories (id, user_id, name, icon, editable) VALUES
			('3f2b6a58-4d27-4c1e-9d5a-8b1f0c2e7a90', NULL, 'Salary', 'briefcase', FALSE),
			('8c1d3e7f-2a64-4b09-b5c2-4e6f8a0d1b23', NULL, 'Food', 'utensils', FALSE),
			('a5e9c2d4-7b38-4f61-8e0a-2c4d6f8b0a15', NULL, 'Transport', 'bus', FALSE),
			('d7b1f4a6-9c52-4e83-a1b0-6e8f0a2c4d37', NULL, 'Other', 'tag', FALSE)
			ON CONFLICT (id) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			category_id UUID NOT NULL REFERENCES categories(id),
			amount DOUBLE PRECISION NOT NULL,
			description TEXT,
			type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id);`,
		`CREATE INDEX IF NOT EXISTS transactions_category_idx ON transactions (category_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
