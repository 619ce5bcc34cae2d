package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/remember/internal/common"
	"github.com/dmitrijs2005/remember/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom returns the user id stored by RequireAuth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth admits requests carrying a valid bearer token and stores the
// token's user id in the request context.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !found || token == "" {
			h.rw.Error(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			h.rw.Error(w, r, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Limiter decides whether a request for key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit answers 429 once the client IP runs out of tokens.
func (h *Handlers) RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				h.rw.Error(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request.
func (h *Handlers) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Recover answers a handler panic with the 500 envelope. An aborted handler
// keeps panicking so the server drops the connection.
func (h *Handlers) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			h.rw.Internal(w, r, fmt.Errorf("panic: %v", p), "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (h *Handlers) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := UserIDFrom(r.Context())
	if !ok {
		h.rw.Error(w, r, http.StatusUnauthorized, "Authentication required")
	}
	return id, ok
}
