package tasks

import (
	"context"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error)
	Stats(ctx context.Context, userID string) (*models.TaskStats, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, id string) error
}
