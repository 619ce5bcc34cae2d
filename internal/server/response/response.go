// Package response writes the JSON envelope shared by every endpoint and
// maps domain errors to HTTP status codes.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/logging"
	pkgerrors "github.com/pkg/errors"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Writer renders envelopes. With debug set, 500 responses carry the error
// stack.
type Writer struct {
	logger logging.Logger
	debug  bool
}

func NewWriter(logger logging.Logger, debug bool) *Writer {
	return &Writer{logger: logger, debug: debug}
}

// JSON writes env with the given status.
func (rw *Writer) JSON(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	rw.WriteJSON(w, r, status, env)
}

// WriteJSON writes v as is, without the envelope.
func (rw *Writer) WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		rw.logger.Error(requestContext(r), "failed to encode response", "error", err)
	}
}

// Data writes a successful response carrying data and an optional message.
func (rw *Writer) Data(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	rw.JSON(w, r, status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a successful response carrying items and their count.
func (rw *Writer) List(w http.ResponseWriter, r *http.Request, items any, count int) {
	rw.JSON(w, r, http.StatusOK, Envelope{Success: true, Data: items, Count: &count})
}

// Message writes a successful response with only a message.
func (rw *Writer) Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	rw.JSON(w, r, status, Envelope{Success: true, Message: message})
}

// Error writes a failed response.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rw.JSON(w, r, status, Envelope{Success: false, Message: message})
}

// HandleError maps err to a status and message. resource names the record
// kind in "not found" messages; fallback is the message for unexpected
// errors, which are logged and answered with 500.
func (rw *Writer) HandleError(w http.ResponseWriter, r *http.Request, err error, resource, fallback string) {
	var vErr *common.ValidationError

	switch {
	case errors.As(err, &vErr):
		rw.Error(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, common.ErrorNotFound):
		rw.Error(w, r, http.StatusNotFound, resource+" not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		rw.Error(w, r, http.StatusBadRequest, resource+" already exists")
	case errors.Is(err, common.ErrInvalidVideoURL):
		rw.Error(w, r, http.StatusBadRequest, "Invalid YouTube URL")
	case errors.Is(err, common.ErrPasskeyNotSet):
		rw.Error(w, r, http.StatusBadRequest, "No vault passkey set")
	case errors.Is(err, common.ErrPasskeyMismatch):
		rw.Error(w, r, http.StatusForbidden, "Invalid passkey")
	case errors.Is(err, common.ErrorUnauthorized):
		rw.Error(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		rw.Error(w, r, http.StatusUnauthorized, "Invalid or expired token")
	default:
		rw.Internal(w, r, err, fallback)
	}
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Internal logs err and writes a 500 response.
func (rw *Writer) Internal(w http.ResponseWriter, r *http.Request, err error, message string) {
	rw.logger.Error(requestContext(r), message, "error", err)

	env := Envelope{Success: false, Message: message}
	if rw.debug {
		env.Stack = stack(err)
	}
	rw.JSON(w, r, http.StatusInternalServerError, env)
}

// stack renders the trace recorded where err was first wrapped with
// pkg/errors. Errors without one get the caller's trace.
func stack(err error) string {
	var origin stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			origin = st
		}
	}
	if origin == nil {
		return fmt.Sprintf("%+v", pkgerrors.WithStack(err))
	}
	return fmt.Sprintf("%s%+v", err.Error(), origin.StackTrace())
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
