// Package tasks persists to-do items in PostgreSQL.
package tasks

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

const selectColumns = `id, user_id, title, description, due_date, priority, status, tags, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                models.Task
		priority, status string
	)
	if err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &priority, &status,
		(*dbx.StringList)(&t.Tags), &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Priority = models.TaskPriority(priority)
	t.Status = models.TaskStatus(status)
	return &t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, due_date, priority, status, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate, string(task.Priority), string(task.Status),
		dbx.StringList(task.Tags), task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	query := `SELECT ` + selectColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return t, nil
}

// List returns the user's tasks matching filter, newest first. Empty filter
// fields match everything.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}

	query := `SELECT ` + selectColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return result, nil
}

// Stats counts the user's tasks. HighPriority only includes pending ones.
func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*models.TaskStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'pending' AND priority = 'high')
		FROM tasks WHERE user_id = $1`

	var s models.TaskStats
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.Total, &s.Pending, &s.Completed, &s.HighPriority); err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return &s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, priority = $6, status = $7, tags = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate, string(task.Priority), string(task.Status),
		dbx.StringList(task.Tags), task.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
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
