package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tumas_backend/internal/model"
)

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.AdminAccount, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_accounts
		WHERE username = $1
	`
	var admin model.AdminAccount
	err := r.db.GetContext(ctx, &admin, query, username)
	if err == sql.ErrNoRows {
		return nil, model.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin account: %w", err)
	}
	return &admin, nil
}

func (r *adminRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	query := `
		INSERT INTO admin_accounts (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`
	if _, err := r.db.ExecContext(ctx, query, username, passwordHash); err != nil {
		return fmt.Errorf("upsert admin account: %w", err)
	}
	return nil
}
