// Package users persists accounts in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	pkgerrors "github.com/pkg/errors"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, name, email, password_hash, vault_passkey_hash, created_at, updated_at, last_login`

// Create inserts user. A taken email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, name, email, password_hash, vault_passkey_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.VaultPasskeyHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return pkgerrors.Wrap(err, "db error")
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, at)
}

func (r *PostgresRepository) SetVaultPasskeyHash(ctx context.Context, id, hash string, at time.Time) error {
	query := `UPDATE users SET vault_passkey_hash = $2, updated_at = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, hash, at)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.VaultPasskeyHash,
		&user.CreatedAt, &user.UpdatedAt, &user.LastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pkgerrors.Wrap(err, "db error")
	}

	return user, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
