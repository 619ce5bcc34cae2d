package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/server/auth"
	"github.com/dmitrijs2005/remember/internal/server/config"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/validation"
	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	minPasskeyLength  = 4
)

var (
	errMissingRegisterFields = common.NewValidationError("Please provide all required fields")
	errShortPassword         = common.NewValidationError("Password must be at least 6 characters")
	errEmailTaken            = common.NewValidationError("User with this email already exists")
	errMissingCredentials    = common.NewValidationError("Please provide email and password")
	errShortPasskey          = common.NewValidationError("Passkey must be at least 4 characters")
	errPasskeyRequired       = common.NewValidationError("Passkey is required")
)

// UserService handles accounts: registration, login, token issuing and the
// vault passkey.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	validator     *validation.Validator
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		validator:     v,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errMissingRegisterFields
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, errShortPassword
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := auth.HashSecret(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrSecretTooLong) {
			return nil, common.NewValidationError("Password is too long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ts := now()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errEmailTaken
		}
		return nil, err
	}

	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password both return
// common.ErrorUnauthorized after comparable work.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, errMissingCredentials
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnVerification(req.Password)
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if !auth.VerifySecret(user.PasswordHash, req.Password) {
		return nil, common.ErrorUnauthorized
	}

	ts := now()
	if err := repo.UpdateLastLogin(ctx, user.ID, ts); err != nil {
		return nil, err
	}
	user.LastLogin = &ts

	return s.issue(user)
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// SetVaultPasskey stores (or replaces) the passkey guarding the vault.
func (s *UserService) SetVaultPasskey(ctx context.Context, userID, passkey string) error {
	if utf8.RuneCountInString(passkey) < minPasskeyLength {
		return errShortPasskey
	}

	hash, err := auth.HashSecret(passkey)
	if err != nil {
		if errors.Is(err, auth.ErrSecretTooLong) {
			return common.NewValidationError("Passkey is too long")
		}
		return fmt.Errorf("hash passkey: %w", err)
	}

	return s.repomanager.Users(s.db).SetVaultPasskeyHash(ctx, userID, hash, now())
}

// VerifyVaultPasskey returns nil on a match, common.ErrPasskeyNotSet when the
// user never set one and common.ErrPasskeyMismatch otherwise.
func (s *UserService) VerifyVaultPasskey(ctx context.Context, userID, passkey string) error {
	if passkey == "" {
		return errPasskeyRequired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasVaultPasskey() {
		return common.ErrPasskeyNotSet
	}
	if !auth.VerifySecret(user.VaultPasskeyHash, passkey) {
		return common.ErrPasskeyMismatch
	}
	return nil
}

func (s *UserService) issue(user *models.User) (*models.AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResult{Token: token, User: user.Public()}, nil
}
