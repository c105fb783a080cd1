package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/model"
)

const (
	sqlLoadCredential = `SELECT salt, hash FROM admin_credential WHERE id = 1`

	sqlSaveCredential = `INSERT INTO admin_credential (id, salt, hash) VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET salt = EXCLUDED.salt, hash = EXCLUDED.hash`
)

func (s *Store) LoadCredential(ctx context.Context) (model.AdminCredential, error) {
	var cred model.AdminCredential
	err := s.Db.QueryRow(ctx, sqlLoadCredential).Scan(&cred.Salt, &cred.Hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AdminCredential{}, fmt.Errorf("admin credential: %w", errs.ErrNotFound)
	}
	if err != nil {
		return model.AdminCredential{}, fmt.Errorf("load admin credential: %w", err)
	}

	return cred, nil
}

func (s *Store) SaveCredential(ctx context.Context, cred model.AdminCredential) error {
	if _, err := s.Db.Exec(ctx, sqlSaveCredential, cred.Salt, cred.Hash); err != nil {
		return fmt.Errorf("save admin credential: %w", err)
	}

	return nil
}
