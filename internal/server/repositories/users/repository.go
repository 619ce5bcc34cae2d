package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetVaultPasskeyHash(ctx context.Context, id, hash string, at time.Time) error
}
