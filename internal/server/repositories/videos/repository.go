package videos

import (
	"context"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) error
	Get(ctx context.Context, userID, id string) (*models.Video, error)
	List(ctx context.Context, userID string, filter models.VideoFilter) ([]*models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, userID, id string) error
}
