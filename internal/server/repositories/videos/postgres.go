// Package videos persists saved YouTube videos in PostgreSQL.
package videos

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

const selectColumns = `id, user_id, video_url, video_id, title, thumbnail, description, personal_notes, tags,
	watch_status, duration, channel, last_watched_at, click_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*models.Video, error) {
	var (
		v      models.Video
		status string
	)
	if err := s.Scan(
		&v.ID, &v.UserID, &v.VideoURL, &v.VideoID, &v.Title, &v.Thumbnail, &v.Description, &v.PersonalNotes,
		(*dbx.StringList)(&v.Tags), &status, &v.Duration, &v.Channel, &v.LastWatchedAt, &v.ClickCount,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.WatchStatus = models.WatchStatus(status)
	return &v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (id, user_id, video_url, video_id, title, thumbnail, description, personal_notes, tags,
			watch_status, duration, channel, last_watched_at, click_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.UserID, video.VideoURL, video.VideoID, video.Title, video.Thumbnail, video.Description,
		video.PersonalNotes, dbx.StringList(video.Tags), string(video.WatchStatus), video.Duration, video.Channel,
		video.LastWatchedAt, video.ClickCount, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Video, error) {
	query := `SELECT ` + selectColumns + ` FROM videos WHERE id = $1 AND user_id = $2`

	v, err := scanVideo(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return v, nil
}

// List returns the user's videos, newest first, optionally narrowed to one
// watch status.
func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.VideoFilter) ([]*models.Video, error) {
	query := `SELECT ` + selectColumns + ` FROM videos WHERE user_id = $1`
	args := []any{userID}

	if filter.WatchStatus != "" {
		query += ` AND watch_status = $2`
		args = append(args, string(filter.WatchStatus))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	defer rows.Close()

	result := make([]*models.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "db error")
	}
	return result, nil
}

// Update overwrites the user-editable columns. The URL and derived video id
// are fixed at creation.
func (r *PostgresRepository) Update(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET title = $3, personal_notes = $4, tags = $5, watch_status = $6, click_count = $7,
			last_watched_at = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query,
		video.ID, video.UserID, video.Title, video.PersonalNotes, dbx.StringList(video.Tags),
		string(video.WatchStatus), video.ClickCount, video.LastWatchedAt, video.UpdatedAt)
	if err != nil {
		return pkgerrors.Wrap(err, "db error")
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1 AND user_id = $2`, id, userID)
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
