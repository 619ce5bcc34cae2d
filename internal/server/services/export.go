package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/server/storage"
	"github.com/google/uuid"
)

// ExportLinkValidity is how long a download link for an export stays valid.
const ExportLinkValidity = 15 * time.Minute

// Export is the document written to object storage. Vault entries carry
// ciphertext only.
type Export struct {
	ExportedAt time.Time            `json:"exportedAt"`
	User       *models.PublicUser   `json:"user"`
	Tasks      []*models.Task       `json:"tasks"`
	Websites   []*models.Website    `json:"websites"`
	Videos     []*models.Video      `json:"videos"`
	Passwords  []*models.VaultEntry `json:"passwords"`
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore) *ExportService {
	return &ExportService{db: db, repomanager: m, store: store}
}

// Export snapshots everything the user owns in one read-only transaction,
// uploads it as JSON and returns a presigned download link.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	doc := &Export{ExportedAt: now()}

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnlySnapshot, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		doc.User = user.Public()

		if doc.Tasks, err = s.repomanager.Tasks(tx).List(ctx, userID, models.TaskFilter{}); err != nil {
			return err
		}
		if doc.Websites, err = s.repomanager.Websites(tx).List(ctx, userID, models.WebsiteFilter{}); err != nil {
			return err
		}
		if doc.Videos, err = s.repomanager.Videos(tx).List(ctx, userID, models.VideoFilter{}); err != nil {
			return err
		}
		doc.Passwords, err = s.repomanager.VaultEntries(tx).List(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s-%s.json", userID, doc.ExportedAt.Format("20060102T150405Z"), uuid.NewString())
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}

	link, err := s.store.PresignGet(ctx, key, ExportLinkValidity)
	if err != nil {
		return nil, err
	}

	return &ExportResult{Key: key, URL: link, ExpiresAt: now().Add(ExportLinkValidity)}, nil
}
