// Package websites persists bookmarked sites in PostgreSQL.
package websites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const selectColumns = `id, user_id, name, url, description, category, tags, is_favorite, last_visited, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanWebsite(s scanner) (*models.Website, error) {
	var (
		w        models.Website
		category string
	)
	if err := s.Scan(
		&w.ID, &w.UserID, &w.Name, &w.URL, &w.Description, &category, (*dbx.StringList)(&w.Tags),
		&w.IsFavorite, &w.LastVisited, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	w.Category = models.WebsiteCategory(category)
	return &w, nil
}

func (r *PostgresRepository) Create(ctx context.Context, site *models.Website) error {
	query := `
		INSERT INTO websites (id, user_id, name, url, description, category, tags, is_favorite, last_visited,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		site.ID, site.UserID, site.Name, site.URL, site.Description, string(site.Category),
		dbx.StringList(site.Tags), site.IsFavorite, site.LastVisited, site.CreatedAt, site.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Website, error) {
	query := `SELECT ` + selectColumns + ` FROM websites WHERE id = $1 AND user_id = $2`

	w, err := scanWebsite(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return w, nil
}

// List returns the user's websites matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.WebsiteFilter) ([]*models.Website, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.IsFavorite != nil {
		args = append(args, *filter.IsFavorite)
		conds = append(conds, fmt.Sprintf("is_favorite = $%d", len(args)))
	}

	query := `SELECT ` + selectColumns + ` FROM websites WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	defer rows.Close()

	result := make([]*models.Website, 0)
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, site *models.Website) error {
	query := `
		UPDATE websites
		SET name = $3, url = $4, description = $5, category = $6, tags = $7, is_favorite = $8,
			last_visited = $9, updated_at = $10
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		site.ID, site.UserID, site.Name, site.URL, site.Description, string(site.Category),
		dbx.StringList(site.Tags), site.IsFavorite, site.LastVisited, site.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM websites WHERE id = $1 AND user_id = $2`, id, userID)
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
