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

var errTaskTitleRequired = common.NewValidationError("Task title is required")

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator) *TaskService {
	return &TaskService{db: db, repomanager: m, validator: v}
}

func (s *TaskService) List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error) {
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}
	return s.repomanager.Tasks(s.db).List(ctx, userID, filter)
}

func (s *TaskService) Stats(ctx context.Context, userID string) (*models.TaskStats, error) {
	return s.repomanager.Tasks(s.db).Stats(ctx, userID)
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Tasks(s.db).Get(ctx, userID, id)
}

func (s *TaskService) Create(ctx context.Context, userID string, req models.CreateTaskRequest) (*models.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, errTaskTitleRequired
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = models.TaskPriorityMedium
	}
	if req.Status == "" {
		req.Status = models.TaskStatusPending
	}

	ts := now()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate.Ptr(),
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        cloneTags(req.Tags),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := s.repomanager.Tasks(s.db).Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the provided fields. An empty title, priority or status is
// ignored rather than stored.
func (s *TaskService) Update(ctx context.Context, userID, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	req.Priority = dropEmpty(req.Priority)
	req.Status = dropEmpty(req.Status)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		var err error
		task, err = repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		if req.Title != nil && !blank(*req.Title) {
			task.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			task.Description = strings.TrimSpace(*req.Description)
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate.Ptr()
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.Tags != nil {
			task.Tags = cloneTags(*req.Tags)
		}
		task.UpdatedAt = now()

		return repo.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Tasks(s.db).Delete(ctx, userID, id)
}
