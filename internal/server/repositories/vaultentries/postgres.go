// Package vaultentries persists encrypted credentials. Every query is scoped
// by owner, so a row belonging to another user is indistinguishable from a
// missing one.
package vaultentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const selectColumns = `id, user_id, website_name, website_url, username, encrypted_password, notes, category,
	last_modified, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.VaultEntry, error) {
	var (
		e        models.VaultEntry
		category string
	)
	if err := s.Scan(
		&e.ID, &e.UserID, &e.WebsiteName, &e.WebsiteURL, &e.Username, &e.EncryptedPassword, &e.Notes, &category,
		&e.LastModified, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Category = models.VaultCategory(category)
	return &e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.VaultEntry) error {
	query := `
		INSERT INTO vault_entries (id, user_id, website_name, website_url, username, encrypted_password, notes,
			category, last_modified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.WebsiteName, entry.WebsiteURL, entry.Username, entry.EncryptedPassword,
		entry.Notes, string(entry.Category), entry.LastModified, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.VaultEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM vault_entries WHERE id = $1 AND user_id = $2`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return e, nil
}

// List returns the user's entries, most recently modified first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM vault_entries WHERE user_id = $1 ORDER BY last_modified DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	defer rows.Close()

	result := make([]*models.VaultEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return result, nil
}

// Update overwrites the mutable columns of the entry owned by entry.UserID.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.VaultEntry) error {
	query := `
		UPDATE vault_entries
		SET website_name = $3, website_url = $4, username = $5, encrypted_password = $6, notes = $7,
			category = $8, last_modified = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.WebsiteName, entry.WebsiteURL, entry.Username, entry.EncryptedPassword,
		entry.Notes, string(entry.Category), entry.LastModified, entry.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
