package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/dmitrijs2005/remember/internal/server/auth"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/response"
	"github.com/dmitrijs2005/remember/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handlers-test-secret-0123456789"

// ---- fakes ----

type fakeUsers struct {
	registerResp *models.AuthResult
	loginResp    *models.AuthResult
	user         *models.PublicUser
	err          error
	gotPasskey   string
}

func (f *fakeUsers) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	return f.registerResp, f.err
}
func (f *fakeUsers) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	return f.loginResp, f.err
}
func (f *fakeUsers) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	return f.user, f.err
}
func (f *fakeUsers) SetVaultPasskey(ctx context.Context, userID, passkey string) error {
	f.gotPasskey = passkey
	return f.err
}
func (f *fakeUsers) VerifyVaultPasskey(ctx context.Context, userID, passkey string) error {
	f.gotPasskey = passkey
	return f.err
}

type fakeVault struct {
	entries   []*models.VaultEntry
	decrypted *models.DecryptedVaultEntry
	err       error
	gotUser   string
	gotID     string
}

func (f *fakeVault) List(ctx context.Context, userID string) ([]*models.VaultEntry, error) {
	f.gotUser = userID
	return f.entries, f.err
}
func (f *fakeVault) Get(ctx context.Context, userID, id string) (*models.DecryptedVaultEntry, error) {
	f.gotUser, f.gotID = userID, id
	return f.decrypted, f.err
}
func (f *fakeVault) Create(ctx context.Context, userID string, req models.CreateVaultEntryRequest) (*models.VaultEntry, error) {
	f.gotUser = userID
	return &models.VaultEntry{ID: "v-1", WebsiteName: req.WebsiteName}, f.err
}
func (f *fakeVault) Update(ctx context.Context, userID, id string, req models.UpdateVaultEntryRequest) (*models.VaultEntry, error) {
	f.gotUser, f.gotID = userID, id
	return &models.VaultEntry{ID: id}, f.err
}
func (f *fakeVault) Delete(ctx context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}

type fakeTasks struct {
	tasks     []*models.Task
	stats     *models.TaskStats
	err       error
	gotFilter models.TaskFilter
	gotID     string
	gotUpdate models.UpdateTaskRequest
}

func (f *fakeTasks) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	f.gotFilter = filter
	return f.tasks, f.err
}
func (f *fakeTasks) Stats(ctx context.Context, userID string) (*models.TaskStats, error) {
	return f.stats, f.err
}
func (f *fakeTasks) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	f.gotID = id
	return &models.Task{ID: id}, f.err
}
func (f *fakeTasks) Create(ctx context.Context, userID string, req models.CreateTaskRequest) (*models.Task, error) {
	return &models.Task{ID: "t-1", Title: req.Title}, f.err
}
func (f *fakeTasks) Update(ctx context.Context, userID, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	f.gotID, f.gotUpdate = id, req
	return &models.Task{ID: id}, f.err
}
func (f *fakeTasks) Delete(ctx context.Context, userID, id string) error {
	f.gotID = id
	return f.err
}

type fakeWebsites struct {
	err       error
	gotFilter models.WebsiteFilter
}

func (f *fakeWebsites) List(ctx context.Context, userID string, filter models.WebsiteFilter) ([]*models.Website, error) {
	f.gotFilter = filter
	return []*models.Website{}, f.err
}
func (f *fakeWebsites) Get(ctx context.Context, userID, id string) (*models.Website, error) {
	return &models.Website{ID: id}, f.err
}
func (f *fakeWebsites) Create(ctx context.Context, userID string, req models.CreateWebsiteRequest) (*models.Website, error) {
	return &models.Website{ID: "w-1", Name: req.Name}, f.err
}
func (f *fakeWebsites) Update(ctx context.Context, userID, id string, req models.UpdateWebsiteRequest) (*models.Website, error) {
	return &models.Website{ID: id}, f.err
}
func (f *fakeWebsites) Delete(ctx context.Context, userID, id string) error {
	return f.err
}

type fakeVideos struct {
	info      *models.VideoInfo
	err       error
	gotFilter models.VideoFilter
	gotURL    string
}

func (f *fakeVideos) List(ctx context.Context, userID string, filter models.VideoFilter) ([]*models.Video, error) {
	f.gotFilter = filter
	return []*models.Video{}, f.err
}
func (f *fakeVideos) Get(ctx context.Context, userID, id string) (*models.Video, error) {
	return &models.Video{ID: id}, f.err
}
func (f *fakeVideos) Create(ctx context.Context, userID string, req models.CreateVideoRequest) (*models.Video, error) {
	return &models.Video{ID: "vid-1", VideoURL: req.VideoURL}, f.err
}
func (f *fakeVideos) Update(ctx context.Context, userID, id string, req models.UpdateVideoRequest) (*models.Video, error) {
	return &models.Video{ID: id}, f.err
}
func (f *fakeVideos) Delete(ctx context.Context, userID, id string) error {
	return f.err
}
func (f *fakeVideos) FetchInfo(ctx context.Context, rawURL string) (*models.VideoInfo, error) {
	f.gotURL = rawURL
	return f.info, f.err
}

type fakeExports struct {
	result *services.ExportResult
	err    error
}

func (f *fakeExports) Export(ctx context.Context, userID string) (*services.ExportResult, error) {
	return f.result, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

type fakeLimiter struct{ allow bool }

func (f fakeLimiter) Allow(string) bool { return f.allow }

// ---- helpers ----

type fixture struct {
	h        *Handlers
	users    *fakeUsers
	vault    *fakeVault
	tasks    *fakeTasks
	websites *fakeWebsites
	videos   *fakeVideos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &fakeUsers{},
		vault:    &fakeVault{},
		tasks:    &fakeTasks{},
		websites: &fakeWebsites{},
		videos:   &fakeVideos{},
	}
	f.h = New(Deps{
		Users:     f.users,
		Vault:     f.vault,
		Tasks:     f.tasks,
		Websites:  f.websites,
		Videos:    f.videos,
		DB:        fakePinger{},
		Writer:    response.NewWriter(logging.Nop(), false),
		Logger:    logging.Nop(),
		JWTSecret: testSecret,
		Param: func(r *http.Request, name string) string {
			return r.URL.Query().Get(name)
		},
	})
	return f
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(WithUserID(r.Context(), userID))
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// ---- middleware ----

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)

	valid, err := auth.GenerateToken("user-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	otherKey, err := auth.GenerateToken("user-1", []byte("some-other-secret-value"), time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("user-1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "bearer without token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantMsg: "Authentication required"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantMsg: "Invalid or expired token"},
		{name: "wrong signing key", header: "Bearer " + otherKey, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid or expired token"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid or expired token"},
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = UserIDFrom(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			f.h.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				body := envelope(t, rec)
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMsg, body["message"])
				assert.Empty(t, gotUser)
				return
			}
			assert.Equal(t, "user-1", gotUser)
		})
	}
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	f.h.RateLimit(fakeLimiter{allow: false})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, envelope(t, rec)["success"])

	rec = httptest.NewRecorder()
	f.h.RateLimit(fakeLimiter{allow: true})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:5123"
	assert.Equal(t, "203.0.113.7", clientIP(r))

	r.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

func TestRecover_WritesEnvelope(t *testing.T) {
	f := newFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("nil map write") })

	rec := httptest.NewRecorder()
	f.h.Recover(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "stack")
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	f := newFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic(http.ErrAbortHandler) })

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		f.h.Recover(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestAccessLog_PassesThrough(t *testing.T) {
	f := newFixture(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	f.h.AccessLog(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

// ---- auth ----

func TestRegister(t *testing.T) {
	f := newFixture(t)
	f.users.registerResp = &models.AuthResult{Token: "tok", User: &models.PublicUser{ID: "u-1", Name: "Ada"}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		jsonBody(t, map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"}))
	f.h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "tok", data["token"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.users.err = common.NewValidationError("User with this email already exists")

	rec := httptest.NewRecorder()
	f.h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, map[string]string{})))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", envelope(t, rec)["message"])
}

func TestRegister_InvalidJSON(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{nope")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", envelope(t, rec)["message"])
}

func TestLogin_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.users.err = common.ErrorUnauthorized

	rec := httptest.NewRecorder()
	f.h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"email": "ada@example.com", "password": "wrong"})))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", envelope(t, rec)["message"])
}

func TestLogin_InternalErrorHidesDetails(t *testing.T) {
	f := newFixture(t)
	f.users.err = errors.New("db error: connection refused")

	rec := httptest.NewRecorder()
	f.h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		jsonBody(t, map[string]string{"email": "ada@example.com", "password": "x"})))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Error logging in", body["message"])
	assert.NotContains(t, body, "stack")
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	f.users.user = &models.PublicUser{ID: "u-1", Name: "Ada", HasVaultPasskey: true}

	rec := httptest.NewRecorder()
	f.h.Me(rec, authed(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	user := envelope(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, true, user["hasVaultPasskey"])
}

func TestMe_UserGone(t *testing.T) {
	f := newFixture(t)
	f.users.err = common.ErrorNotFound

	rec := httptest.NewRecorder()
	f.h.Me(rec, authed(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "u-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", envelope(t, rec)["message"])
}

func TestMe_WithoutUserInContext(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVaultPasskey(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *Handlers) http.HandlerFunc
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "set ok", call: func(h *Handlers) http.HandlerFunc { return h.SetVaultPasskey }, wantStatus: http.StatusOK, wantMsg: "Vault passkey set successfully"},
		{name: "verify ok", call: func(h *Handlers) http.HandlerFunc { return h.VerifyVaultPasskey }, wantStatus: http.StatusOK, wantMsg: "Passkey verified successfully"},
		{name: "verify not set", call: func(h *Handlers) http.HandlerFunc { return h.VerifyVaultPasskey }, err: common.ErrPasskeyNotSet, wantStatus: http.StatusBadRequest, wantMsg: "No vault passkey set"},
		{name: "verify mismatch", call: func(h *Handlers) http.HandlerFunc { return h.VerifyVaultPasskey }, err: common.ErrPasskeyMismatch, wantStatus: http.StatusForbidden, wantMsg: "Invalid passkey"},
		{name: "set fails", call: func(h *Handlers) http.HandlerFunc { return h.SetVaultPasskey }, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "Error setting vault passkey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.users.err = tt.err

			rec := httptest.NewRecorder()
			req := authed(httptest.NewRequest(http.MethodPost, "/api/auth/vault-passkey", jsonBody(t, map[string]string{"passkey": "1234"})), "u-1")
			tt.call(f.h)(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, envelope(t, rec)["message"])
			assert.Equal(t, "1234", f.users.gotPasskey)
		})
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.h.ExportsEnabled())

	rec := httptest.NewRecorder()
	f.h.Export(rec, authed(httptest.NewRequest(http.MethodPost, "/api/auth/export", nil), "u-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.h.exports = &fakeExports{result: &services.ExportResult{Key: "exports/u-1/x.json", URL: "https://s3.example/x"}}
	assert.True(t, f.h.ExportsEnabled())

	rec = httptest.NewRecorder()
	f.h.Export(rec, authed(httptest.NewRequest(http.MethodPost, "/api/auth/export", nil), "u-1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "https://s3.example/x", data["url"])
}

// ---- vault ----

func TestListPasswords_NoPlaintext(t *testing.T) {
	f := newFixture(t)
	f.vault.entries = []*models.VaultEntry{{ID: "v-1", EncryptedPassword: "v1.abc"}}

	rec := httptest.NewRecorder()
	f.h.ListPasswords(rec, authed(httptest.NewRequest(http.MethodGet, "/api/passwords", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.EqualValues(t, 1, body["count"])
	item := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "v1.abc", item["encryptedPassword"])
	assert.NotContains(t, item, "decryptedPassword")
	assert.Equal(t, "u-1", f.vault.gotUser)
}

func TestGetPassword(t *testing.T) {
	f := newFixture(t)
	f.vault.decrypted = &models.DecryptedVaultEntry{
		VaultEntry:        &models.VaultEntry{ID: "v-1", EncryptedPassword: "v1.abc"},
		DecryptedPassword: "hunter2",
	}

	rec := httptest.NewRecorder()
	f.h.GetPassword(rec, authed(httptest.NewRequest(http.MethodGet, "/api/passwords?id=v-1", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "hunter2", data["decryptedPassword"])
	assert.Equal(t, "v1.abc", data["encryptedPassword"])
	assert.Equal(t, "v-1", f.vault.gotID)
}

func TestPasswordNotFound(t *testing.T) {
	f := newFixture(t)
	f.vault.err = common.ErrorNotFound

	for name, call := range map[string]http.HandlerFunc{
		"get":    f.h.GetPassword,
		"update": f.h.UpdatePassword,
		"delete": f.h.DeletePassword,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			call(rec, authed(httptest.NewRequest(http.MethodPut, "/api/passwords?id=other", jsonBody(t, map[string]string{})), "u-1"))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Password not found", envelope(t, rec)["message"])
		})
	}
}

func TestCreatePassword(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.CreatePassword(rec, authed(httptest.NewRequest(http.MethodPost, "/api/passwords",
		jsonBody(t, map[string]string{"websiteName": "GitHub", "username": "ada", "password": "pw"})), "u-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Password saved successfully", body["message"])
	assert.Equal(t, "GitHub", body["data"].(map[string]any)["websiteName"])
}

// ---- tasks ----

func TestListTasks_Filters(t *testing.T) {
	f := newFixture(t)
	f.tasks.tasks = []*models.Task{}

	rec := httptest.NewRecorder()
	f.h.ListTasks(rec, authed(httptest.NewRequest(http.MethodGet, "/api/tasks?status=pending&priority=high", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, models.TaskFilter{Status: models.TaskStatusPending, Priority: models.TaskPriorityHigh}, f.tasks.gotFilter)
}

func TestListTasks_InvalidFilter(t *testing.T) {
	f := newFixture(t)
	f.tasks.err = &common.ValidationError{Fields: map[string]string{"status": "must be one of pending in-progress completed"}}

	rec := httptest.NewRecorder()
	f.h.ListTasks(rec, authed(httptest.NewRequest(http.MethodGet, "/api/tasks?status=bogus", nil), "u-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskStats(t *testing.T) {
	f := newFixture(t)
	f.tasks.stats = &models.TaskStats{Total: 3, Pending: 2, Completed: 1, HighPriority: 1}

	rec := httptest.NewRecorder()
	f.h.TaskStats(rec, authed(httptest.NewRequest(http.MethodGet, "/api/tasks/stats", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	data := envelope(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 3, data["total"])
	assert.EqualValues(t, 1, data["highPriority"])
}

func TestUpdateTask_PassesIDAndPatch(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.UpdateTask(rec, authed(httptest.NewRequest(http.MethodPut, "/api/tasks?id=t-9",
		bytes.NewBufferString(`{"status":"completed","dueDate":"2025-12-24"}`)), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task updated successfully", envelope(t, rec)["message"])
	assert.Equal(t, "t-9", f.tasks.gotID)
	require.NotNil(t, f.tasks.gotUpdate.Status)
	assert.Equal(t, models.TaskStatusCompleted, *f.tasks.gotUpdate.Status)
	assert.Nil(t, f.tasks.gotUpdate.Title)
	require.NotNil(t, f.tasks.gotUpdate.DueDate)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), f.tasks.gotUpdate.DueDate.Time)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.DeleteTask(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/tasks?id=t-2", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Task deleted successfully", body["message"])
	assert.NotContains(t, body, "data")
}

// ---- websites ----

func TestListWebsites_FavoriteFilter(t *testing.T) {
	tests := []struct {
		query string
		want  *bool
	}{
		{query: "", want: nil},
		{query: "?isFavorite=true", want: boolPtr(true)},
		{query: "?isFavorite=false", want: boolPtr(false)},
		{query: "?isFavorite=yes", want: boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newFixture(t)

			rec := httptest.NewRecorder()
			f.h.ListWebsites(rec, authed(httptest.NewRequest(http.MethodGet, "/api/websites"+tt.query, nil), "u-1"))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, f.websites.gotFilter.IsFavorite)
		})
	}
}

func TestCreateWebsite_Validation(t *testing.T) {
	f := newFixture(t)
	f.websites.err = common.NewValidationError("Website name and URL are required")

	rec := httptest.NewRecorder()
	f.h.CreateWebsite(rec, authed(httptest.NewRequest(http.MethodPost, "/api/websites", jsonBody(t, map[string]string{})), "u-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Website name and URL are required", envelope(t, rec)["message"])
}

// ---- videos ----

func TestListVideos_Filter(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.ListVideos(rec, authed(httptest.NewRequest(http.MethodGet, "/api/videos?watchStatus=completed", nil), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.WatchStatusCompleted, f.videos.gotFilter.WatchStatus)
}

func TestCreateVideo_InvalidURL(t *testing.T) {
	f := newFixture(t)
	f.videos.err = common.ErrInvalidVideoURL

	rec := httptest.NewRecorder()
	f.h.CreateVideo(rec, authed(httptest.NewRequest(http.MethodPost, "/api/videos",
		jsonBody(t, map[string]string{"videoUrl": "https://vimeo.com/1"})), "u-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid YouTube URL", envelope(t, rec)["message"])
}

func TestFetchVideoInfo_FallbackMessage(t *testing.T) {
	f := newFixture(t)
	f.videos.info = &models.VideoInfo{
		VideoID:   "abc123",
		Title:     models.DefaultVideoTitle,
		Thumbnail: "https://img.youtube.com/vi/abc123/mqdefault.jpg",
		Message:   "Could not fetch video title, please enter it manually.",
	}

	rec := httptest.NewRecorder()
	f.h.FetchVideoInfo(rec, authed(httptest.NewRequest(http.MethodPost, "/api/videos/fetch-info",
		jsonBody(t, map[string]string{"url": "https://youtu.be/abc123"})), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "Could not fetch video title, please enter it manually.", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "abc123", data["videoId"])
	assert.NotContains(t, data, "message")
	assert.Equal(t, "https://youtu.be/abc123", f.videos.gotURL)
}

// ---- misc ----

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := envelope(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])

	f.h.db = fakePinger{err: errors.New("connection refused")}
	rec = httptest.NewRecorder()
	f.h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", envelope(t, rec)["status"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", envelope(t, rec)["message"])

	rec = httptest.NewRecorder()
	f.h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/api/tasks", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", envelope(t, rec)["message"])
}

func boolPtr(b bool) *bool { return &b }
