package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/remember/internal/server/repositories/users"
	"github.com/dmitrijs2005/remember/internal/server/repositories/vaultentries"
	"github.com/dmitrijs2005/remember/internal/server/repositories/videos"
	"github.com/dmitrijs2005/remember/internal/server/repositories/websites"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fixClock pins the service clock for the duration of a test.
func fixClock(t *testing.T, ts time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
}

// fakeUsersRepo keeps users in memory, keyed by id.
type fakeUsersRepo struct {
	byID map[string]*models.User
	err  error
}

func newFakeUsersRepo(list ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range list {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return common.ErrorAlreadyExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLogin = &at
	return nil
}

func (f *fakeUsersRepo) SetVaultPasskeyHash(_ context.Context, id, hash string, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.VaultPasskeyHash = hash
	u.UpdatedAt = at
	return nil
}

// ownedStore is an owner-scoped in-memory table shared by the resource fakes.
type ownedStore[T any] struct {
	rows  map[string]*T
	owner func(*T) string
	id    func(*T) string
	err   error
}

func newOwnedStore[T any](id, owner func(*T) string) *ownedStore[T] {
	return &ownedStore[T]{rows: map[string]*T{}, id: id, owner: owner}
}

func (s *ownedStore[T]) create(v *T) error {
	if s.err != nil {
		return s.err
	}
	cp := *v
	s.rows[s.id(v)] = &cp
	return nil
}

func (s *ownedStore[T]) get(userID, id string) (*T, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.rows[id]
	if !ok || s.owner(v) != userID {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *ownedStore[T]) list(userID string, keep func(*T) bool) []*T {
	out := make([]*T, 0)
	for _, v := range s.rows {
		if s.owner(v) == userID && keep(v) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.id(out[i]) < s.id(out[j]) })
	return out
}

func (s *ownedStore[T]) update(v *T) error {
	if s.err != nil {
		return s.err
	}
	if _, err := s.get(s.owner(v), s.id(v)); err != nil {
		return err
	}
	cp := *v
	s.rows[s.id(v)] = &cp
	return nil
}

func (s *ownedStore[T]) delete(userID, id string) error {
	if _, err := s.get(userID, id); err != nil {
		return err
	}
	delete(s.rows, id)
	return nil
}

type fakeVaultRepo struct{ *ownedStore[models.VaultEntry] }

func newFakeVaultRepo() *fakeVaultRepo {
	return &fakeVaultRepo{newOwnedStore(
		func(e *models.VaultEntry) string { return e.ID },
		func(e *models.VaultEntry) string { return e.UserID })}
}

func (f *fakeVaultRepo) Create(_ context.Context, e *models.VaultEntry) error { return f.create(e) }
func (f *fakeVaultRepo) Get(_ context.Context, userID, id string) (*models.VaultEntry, error) {
	return f.get(userID, id)
}
func (f *fakeVaultRepo) List(_ context.Context, userID string) ([]*models.VaultEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(userID, func(*models.VaultEntry) bool { return true }), nil
}
func (f *fakeVaultRepo) Update(_ context.Context, e *models.VaultEntry) error { return f.update(e) }
func (f *fakeVaultRepo) Delete(_ context.Context, userID, id string) error { return f.delete(userID, id) }

type fakeTasksRepo struct{ *ownedStore[models.Task] }

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{newOwnedStore(
		func(t *models.Task) string { return t.ID },
		func(t *models.Task) string { return t.UserID })}
}

func (f *fakeTasksRepo) Create(_ context.Context, t *models.Task) error { return f.create(t) }
func (f *fakeTasksRepo) Get(_ context.Context, userID, id string) (*models.Task, error) {
	return f.get(userID, id)
}
func (f *fakeTasksRepo) List(_ context.Context, userID string, fl models.TaskFilter) ([]*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(userID, func(t *models.Task) bool {
		return (fl.Status == "" || t.Status == fl.Status) && (fl.Priority == "" || t.Priority == fl.Priority)
	}), nil
}
func (f *fakeTasksRepo) Stats(_ context.Context, userID string) (*models.TaskStats, error) {
	var s models.TaskStats
	for _, t := range f.list(userID, func(*models.Task) bool { return true }) {
		s.Total++
		switch t.Status {
		case models.TaskStatusPending:
			s.Pending++
			if t.Priority == models.TaskPriorityHigh {
				s.HighPriority++
			}
		case models.TaskStatusCompleted:
			s.Completed++
		}
	}
	return &s, nil
}
func (f *fakeTasksRepo) Update(_ context.Context, t *models.Task) error { return f.update(t) }
func (f *fakeTasksRepo) Delete(_ context.Context, userID, id string) error {
	return f.delete(userID, id)
}

type fakeWebsitesRepo struct{ *ownedStore[models.Website] }

func newFakeWebsitesRepo() *fakeWebsitesRepo {
	return &fakeWebsitesRepo{newOwnedStore(
		func(w *models.Website) string { return w.ID },
		func(w *models.Website) string { return w.UserID })}
}

func (f *fakeWebsitesRepo) Create(_ context.Context, w *models.Website) error { return f.create(w) }
func (f *fakeWebsitesRepo) Get(_ context.Context, userID, id string) (*models.Website, error) {
	return f.get(userID, id)
}
func (f *fakeWebsitesRepo) List(_ context.Context, userID string, fl models.WebsiteFilter) ([]*models.Website, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(userID, func(w *models.Website) bool {
		return (fl.Category == "" || w.Category == fl.Category) && (fl.IsFavorite == nil || w.IsFavorite == *fl.IsFavorite)
	}), nil
}
func (f *fakeWebsitesRepo) Update(_ context.Context, w *models.Website) error { return f.update(w) }
func (f *fakeWebsitesRepo) Delete(_ context.Context, userID, id string) error {
	return f.delete(userID, id)
}

type fakeVideosRepo struct{ *ownedStore[models.Video] }

func newFakeVideosRepo() *fakeVideosRepo {
	return &fakeVideosRepo{newOwnedStore(
		func(v *models.Video) string { return v.ID },
		func(v *models.Video) string { return v.UserID })}
}

func (f *fakeVideosRepo) Create(_ context.Context, v *models.Video) error { return f.create(v) }
func (f *fakeVideosRepo) Get(_ context.Context, userID, id string) (*models.Video, error) {
	return f.get(userID, id)
}
func (f *fakeVideosRepo) List(_ context.Context, userID string, fl models.VideoFilter) ([]*models.Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(userID, func(v *models.Video) bool {
		return fl.WatchStatus == "" || v.WatchStatus == fl.WatchStatus
	}), nil
}
func (f *fakeVideosRepo) Update(_ context.Context, v *models.Video) error { return f.update(v) }
func (f *fakeVideosRepo) Delete(_ context.Context, userID, id string) error {
	return f.delete(userID, id)
}

// fakeRepoManager hands out the same fakes whatever DBTX it is given.
type fakeRepoManager struct {
	users    *fakeUsersRepo
	vault    *fakeVaultRepo
	tasks    *fakeTasksRepo
	websites *fakeWebsitesRepo
	videos   *fakeVideosRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    newFakeUsersRepo(),
		vault:    newFakeVaultRepo(),
		tasks:    newFakeTasksRepo(),
		websites: newFakeWebsitesRepo(),
		videos:   newFakeVideosRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }
func (m *fakeRepoManager) VaultEntries(dbx.DBTX) vaultentries.Repository { return m.vault }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository { return m.tasks }
func (m *fakeRepoManager) Websites(dbx.DBTX) websites.Repository { return m.websites }
func (m *fakeRepoManager) Videos(dbx.DBTX) videos.Repository { return m.videos }
