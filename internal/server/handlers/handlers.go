// Package handlers implements every ReMember endpoint as a plain
// http.HandlerFunc. The chi server and the serverless host only differ in
// how they route requests and read path parameters.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/response"
	"github.com/dmitrijs2005/remember/internal/server/services"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
	SetVaultPasskey(ctx context.Context, userID, passkey string) error
	VerifyVaultPasskey(ctx context.Context, userID, passkey string) error
}

type VaultService interface {
	List(ctx context.Context, userID string) ([]*models.VaultEntry, error)
	Get(ctx context.Context, userID, id string) (*models.DecryptedVaultEntry, error)
	Create(ctx context.Context, userID string, req models.CreateVaultEntryRequest) (*models.VaultEntry, error)
	Update(ctx context.Context, userID, id string, req models.UpdateVaultEntryRequest) (*models.VaultEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

type TaskService interface {
	List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error)
	Stats(ctx context.Context, userID string) (*models.TaskStats, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	Create(ctx context.Context, userID string, req models.CreateTaskRequest) (*models.Task, error)
	Update(ctx context.Context, userID, id string, req models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type WebsiteService interface {
	List(ctx context.Context, userID string, filter models.WebsiteFilter) ([]*models.Website, error)
	Get(ctx context.Context, userID, id string) (*models.Website, error)
	Create(ctx context.Context, userID string, req models.CreateWebsiteRequest) (*models.Website, error)
	Update(ctx context.Context, userID, id string, req models.UpdateWebsiteRequest) (*models.Website, error)
	Delete(ctx context.Context, userID, id string) error
}

type VideoService interface {
	List(ctx context.Context, userID string, filter models.VideoFilter) ([]*models.Video, error)
	Get(ctx context.Context, userID, id string) (*models.Video, error)
	Create(ctx context.Context, userID string, req models.CreateVideoRequest) (*models.Video, error)
	Update(ctx context.Context, userID, id string, req models.UpdateVideoRequest) (*models.Video, error)
	Delete(ctx context.Context, userID, id string) error
	FetchInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*services.ExportResult, error)
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ParamFunc reads a named path parameter from r.
type ParamFunc func(r *http.Request, name string) string

// Deps wires a Handlers value. Exports may be nil, which disables the
// export endpoint.
type Deps struct {
	Users     UserService
	Vault     VaultService
	Tasks     TaskService
	Websites  WebsiteService
	Videos    VideoService
	Exports   ExportService
	DB        Pinger
	Writer    *response.Writer
	Logger    logging.Logger
	JWTSecret string
	Param     ParamFunc
}

type Handlers struct {
	users     UserService
	vault     VaultService
	tasks     TaskService
	websites  WebsiteService
	videos    VideoService
	exports   ExportService
	db        Pinger
	rw        *response.Writer
	logger    logging.Logger
	jwtSecret []byte
	param     ParamFunc
}

func New(d Deps) *Handlers {
	param := d.Param
	if param == nil {
		param = func(r *http.Request, name string) string { return r.PathValue(name) }
	}
	return &Handlers{
		users:     d.Users,
		vault:     d.Vault,
		tasks:     d.Tasks,
		websites:  d.Websites,
		videos:    d.Videos,
		exports:   d.Exports,
		db:        d.DB,
		rw:        d.Writer,
		logger:    d.Logger.With("module", "handlers"),
		jwtSecret: []byte(d.JWTSecret),
		param:     param,
	}
}

// ExportsEnabled reports whether the export endpoint should be routed.
func (h *Handlers) ExportsEnabled() bool {
	return h.exports != nil
}

// NotFound answers unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.rw.Error(w, r, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.rw.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}

// decode reads a JSON body into dst. On failure it writes the 400 response
// and returns false.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.logger.Debug(r.Context(), "invalid request body", "error", err)
		h.rw.Error(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handlers) id(r *http.Request) string {
	return strings.TrimSpace(h.param(r, "id"))
}
