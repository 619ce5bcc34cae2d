package handlers

import (
	"net/http"
	"time"
)

type healthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Health answers 200 while the database responds and 503 otherwise. It is
// written without the envelope so load balancers can read it directly.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	body := healthStatus{Status: "ok", Message: "ReMember API is running", Timestamp: time.Now().UTC()}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "health check: database unreachable", "error", err)
			body.Status, body.Message = "error", "Database unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	h.rw.WriteJSON(w, r, status, body)
}
