package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/remember/internal/server/models"
)

const taskResource = "Task"

// ListTasks accepts the optional query filters status and priority.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.TaskFilter{
		Status:   models.TaskStatus(q.Get("status")),
		Priority: models.TaskPriority(q.Get("priority")),
	}

	tasks, err := h.tasks.List(r.Context(), userID, filter)
	if err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error fetching tasks")
		return
	}

	h.rw.List(w, r, tasks, len(tasks))
}

func (h *Handlers) TaskStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	stats, err := h.tasks.Stats(r.Context(), userID)
	if err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error fetching task statistics")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", stats)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), userID, h.id(r))
	if err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error fetching task")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "", task)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, req)
	if err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error creating task")
		return
	}

	h.rw.Data(w, r, http.StatusCreated, "Task created successfully", task)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, h.id(r), req)
	if err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error updating task")
		return
	}

	h.rw.Data(w, r, http.StatusOK, "Task updated successfully", task)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), userID, h.id(r)); err != nil {
		h.rw.HandleError(w, r, err, taskResource, "Error deleting task")
		return
	}

	h.rw.Message(w, r, http.StatusOK, "Task deleted successfully")
}
