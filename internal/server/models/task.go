package models

import (
	"time"

	"github.com/dmitrijs2005/remember/internal/timex"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *time.Time   `json:"dueDate"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type TaskFilter struct {
	Status   TaskStatus   `validate:"omitempty,oneof=pending in-progress completed"`
	Priority TaskPriority `validate:"omitempty,oneof=low medium high"`
}

type TaskStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Completed    int `json:"completed"`
	HighPriority int `json:"highPriority"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"max=200"`
	Description string       `json:"description" validate:"max=2000"`
	DueDate     *timex.Time  `json:"dueDate"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      TaskStatus   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Tags        []string     `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       *string       `json:"title" validate:"omitempty,max=200"`
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	DueDate     *timex.Time   `json:"dueDate"`
	Priority    *TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *TaskStatus   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Tags        *[]string     `json:"tags"`
}
