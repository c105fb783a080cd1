package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS counter (
		id SMALLINT PRIMARY KEY DEFAULT 1,
		value BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		total BIGINT NOT NULL,
		payment_type TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders (id),
		name TEXT NOT NULL,
		quantity INT NOT NULL,
		line_total BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		id SERIAL PRIMARY KEY,
		tab TEXT NOT NULL,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		data_name TEXT NOT NULL,
		price BIGINT NOT NULL,
		color TEXT NOT NULL,
		order_index INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS admin_credential (
		id SMALLINT PRIMARY KEY DEFAULT 1,
		salt TEXT NOT NULL,
		hash TEXT NOT NULL
	)`,
	// the counter lives in exactly one row, seeded at zero before first use
	`INSERT INTO counter (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
}

// Migrate bootstraps the schema. All statements are idempotent so the migrate
// command can run on every deploy.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.Db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	return nil
}
