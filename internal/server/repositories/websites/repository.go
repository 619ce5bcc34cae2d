package websites

import (
	"context"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, site *models.Website) error
	Get(ctx context.Context, userID, id string) (*models.Website, error)
	List(ctx context.Context, userID string, filter models.WebsiteFilter) ([]*models.Website, error)
	Update(ctx context.Context, site *models.Website) error
	Delete(ctx context.Context, userID, id string) error
}
