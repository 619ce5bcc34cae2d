package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/validation"
	"github.com/google/uuid"
)

var errWebsiteFieldsRequired = common.NewValidationError("Website name and URL are required")

type WebsiteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
}

func NewWebsiteService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator) *WebsiteService {
	return &WebsiteService{db: db, repomanager: m, validator: v}
}

func (s *WebsiteService) List(ctx context.Context, userID string, filter models.WebsiteFilter) ([]*models.Website, error) {
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}
	return s.repomanager.Websites(s.db).List(ctx, userID, filter)
}

func (s *WebsiteService) Get(ctx context.Context, userID, id string) (*models.Website, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Websites(s.db).Get(ctx, userID, id)
}

func (s *WebsiteService) Create(ctx context.Context, userID string, req models.CreateWebsiteRequest) (*models.Website, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	if req.Name == "" || req.URL == "" {
		return nil, errWebsiteFieldsRequired
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Category == "" {
		req.Category = models.WebsiteCategoryOther
	}

	ts := now()
	site := &models.Website{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		URL:         req.URL,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Tags:        cloneTags(req.Tags),
		IsFavorite:  req.IsFavorite,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := s.repomanager.Websites(s.db).Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// Update applies the provided fields. An empty name, URL or category is
// ignored rather than stored.
func (s *WebsiteService) Update(ctx context.Context, userID, id string, req models.UpdateWebsiteRequest) (*models.Website, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req.Category = dropEmpty(req.Category)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var site *models.Website
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Websites(tx)

		var err error
		site, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if req.Name != nil && !blank(*req.Name) {
			site.Name = strings.TrimSpace(*req.Name)
		}
		if req.URL != nil && !blank(*req.URL) {
			site.URL = strings.TrimSpace(*req.URL)
		}
		if req.Description != nil {
			site.Description = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			site.Category = *req.Category
		}
		if req.Tags != nil {
			site.Tags = cloneTags(*req.Tags)
		}
		if req.IsFavorite != nil {
			site.IsFavorite = *req.IsFavorite
		}
		if req.LastVisited != nil {
			site.LastVisited = req.LastVisited.Ptr()
		}
		site.UpdatedAt = now()

		return repo.Update(ctx, site)
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

func (s *WebsiteService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Websites(s.db).Delete(ctx, userID, id)
}
