package vaultentries

import (
	"context"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.VaultEntry) error
	Get(ctx context.Context, userID, id string) (*models.VaultEntry, error)
	List(ctx context.Context, userID string) ([]*models.VaultEntry, error)
	Update(ctx context.Context, entry *models.VaultEntry) error
	Delete(ctx context.Context, userID, id string) error
}
