package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/server/models"
	"github.com/dmitrijs2005/remember/internal/timex"
	"github.com/dmitrijs2005/remember/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T, rm *fakeRepoManager) (*TaskService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	return NewTaskService(db, rm, validation.New()), mock
}

func TestTaskCreate_Defaults(t *testing.T) {
	s, _ := newTaskService(t, newFakeRepoManager())

	task, err := s.Create(context.Background(), "u-1", models.CreateTaskRequest{
		Title: "  Write report ", Tags: []string{"work", " ", "q3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, []string{"work", "q3"}, task.Tags)
}

func TestTaskCreate_Validation(t *testing.T) {
	s, _ := newTaskService(t, newFakeRepoManager())

	_, err := s.Create(context.Background(), "u-1", models.CreateTaskRequest{Title: " "})
	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Task title is required", vErr.Message)

	_, err = s.Create(context.Background(), "u-1", models.CreateTaskRequest{Title: "x", Priority: "urgent"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "must be one of: low medium high", vErr.Fields["priority"])
}

func TestTaskList_FiltersAndValidation(t *testing.T) {
	s, _ := newTaskService(t, newFakeRepoManager())
	ctx := context.Background()

	_, err := s.Create(ctx, "u-1", models.CreateTaskRequest{Title: "a", Priority: models.TaskPriorityHigh})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u-1", models.CreateTaskRequest{Title: "b", Status: models.TaskStatusCompleted})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u-2", models.CreateTaskRequest{Title: "c", Priority: models.TaskPriorityHigh})
	require.NoError(t, err)

	all, err := s.List(ctx, "u-1", models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	high, err := s.List(ctx, "u-1", models.TaskFilter{Priority: models.TaskPriorityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "a", high[0].Title)

	_, err = s.List(ctx, "u-1", models.TaskFilter{Status: "done"})
	var vErr *common.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestTaskStats(t *testing.T) {
	s, _ := newTaskService(t, newFakeRepoManager())
	ctx := context.Background()

	for _, req := range []models.CreateTaskRequest{
		{Title: "1", Priority: models.TaskPriorityHigh},
		{Title: "2", Priority: models.TaskPriorityHigh, Status: models.TaskStatusCompleted},
		{Title: "3"},
		{Title: "4", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityHigh},
	} {
		_, err := s.Create(ctx, "u-1", req)
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, &models.TaskStats{Total: 4, Pending: 2, Completed: 1, HighPriority: 1}, stats)
}

func TestTaskUpdate_Partial(t *testing.T) {
	s, mock := newTaskService(t, newFakeRepoManager())
	ctx := context.Background()
	due := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	task, err := s.Create(ctx, "u-1", models.CreateTaskRequest{
		Title: "Gifts", Description: "buy", DueDate: timex.At(due), Tags: []string{"xmas"},
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	done := models.TaskStatusCompleted
	empty := models.TaskPriority("")
	got, err := s.Update(ctx, "u-1", task.ID, models.UpdateTaskRequest{
		Title:    strPtr(""),
		Status:   &done,
		Priority: &empty,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gifts", got.Title)
	assert.Equal(t, "buy", got.Description)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, models.TaskPriorityMedium, got.Priority)
	assert.Equal(t, []string{"xmas"}, got.Tags)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
}

func TestTaskUpdate_ClearsTagsAndDescription(t *testing.T) {
	s, mock := newTaskService(t, newFakeRepoManager())
	ctx := context.Background()

	task, err := s.Create(ctx, "u-1", models.CreateTaskRequest{Title: "T", Description: "d", Tags: []string{"x"}})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	noTags := []string{}
	got, err := s.Update(ctx, "u-1", task.ID, models.UpdateTaskRequest{Description: strPtr(""), Tags: &noTags})
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Tags)
}

func TestTask_CrossUser(t *testing.T) {
	s, mock := newTaskService(t, newFakeRepoManager())
	ctx := context.Background()

	task, err := s.Create(ctx, "u-1", models.CreateTaskRequest{Title: "private"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "u-2", task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = s.Update(ctx, "u-2", task.ID, models.UpdateTaskRequest{Title: strPtr("mine")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "u-2", task.ID), common.ErrorNotFound)
	assert.NoError(t, s.Delete(ctx, "u-1", task.ID))
}
