package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/cryptox"
	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/validation"
	"github.com/google/uuid"
)

var errMissingVaultFields = common.NewValidationError("Website name, username, and password are required")

// VaultService manages stored credentials. Passwords are encrypted before
// they reach a repository and decrypted only for single-entry reads.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
	cipher      *cryptox.Cipher
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator, c *cryptox.Cipher) *VaultService {
	return &VaultService{db: db, repomanager: m, validator: v, cipher: c}
}

// List returns ciphertext-only entries, most recently modified first.
func (s *VaultService) List(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	return s.repomanager.VaultEntries(s.db).List(ctx, userID)
}

func (s *VaultService) Get(ctx context.Context, userID, id string) (*models.DecryptedVaultEntry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	entry, err := s.repomanager.VaultEntries(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	plain, err := s.cipher.DecryptString(entry.EncryptedPassword)
	if err != nil {
		return nil, fmt.Errorf("decrypt vault entry %s: %w", id, err)
	}

	return &models.DecryptedVaultEntry{VaultEntry: entry, DecryptedPassword: plain}, nil
}

func (s *VaultService) Create(ctx context.Context, userID string, req models.CreateVaultEntryRequest) (*models.VaultEntry, error) {
	req.WebsiteName = strings.TrimSpace(req.WebsiteName)
	req.Username = strings.TrimSpace(req.Username)
	req.WebsiteURL = strings.TrimSpace(req.WebsiteURL)

	if req.WebsiteName == "" || req.Username == "" || req.Password == "" {
		return nil, errMissingVaultFields
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Category == "" {
		req.Category = models.VaultCategoryOther
	}

	ciphertext, err := s.cipher.EncryptString(req.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypt password: %w", err)
	}

	ts := now()
	entry := &models.VaultEntry{
		ID:                uuid.NewString(),
		UserID:            userID,
		WebsiteName:       req.WebsiteName,
		WebsiteURL:        req.WebsiteURL,
		Username:          req.Username,
		EncryptedPassword: ciphertext,
		Notes:             req.Notes,
		Category:          req.Category,
		LastModified:      ts,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}

	if err := s.repomanager.VaultEntries(s.db).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update merges req into the stored entry. Only a non-empty password
// replaces the ciphertext; LastModified is refreshed on every update.
func (s *VaultService) Update(ctx context.Context, userID, id string, req models.UpdateVaultEntryRequest) (*models.VaultEntry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req.Category = dropEmpty(req.Category)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var entry *models.VaultEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.VaultEntries(tx)

		var err error
		entry, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if req.WebsiteName != nil && !blank(*req.WebsiteName) {
			entry.WebsiteName = strings.TrimSpace(*req.WebsiteName)
		}
		if req.WebsiteURL != nil {
			entry.WebsiteURL = strings.TrimSpace(*req.WebsiteURL)
		}
		if req.Username != nil && !blank(*req.Username) {
			entry.Username = strings.TrimSpace(*req.Username)
		}
		if req.Password != nil && *req.Password != "" {
			ciphertext, err := s.cipher.EncryptString(*req.Password)
			if err != nil {
				return fmt.Errorf("encrypt password: %w", err)
			}
			entry.EncryptedPassword = ciphertext
		}
		if req.Notes != nil {
			entry.Notes = *req.Notes
		}
		if req.Category != nil {
			entry.Category = *req.Category
		}

		ts := now()
		entry.LastModified = ts
		entry.UpdatedAt = ts

		return repo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *VaultService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.VaultEntries(s.db).Delete(ctx, userID, id)
}
