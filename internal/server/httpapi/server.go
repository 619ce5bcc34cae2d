// Package httpapi serves the ReMember handlers behind a chi router.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/dmitrijs2005/remember/internal/server/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Options tune the router. A nil Limiter leaves register and login
// unthrottled. Without TrustProxy the client address is the socket peer and
// forwarding headers are ignored.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Limiter        handlers.Limiter
	TrustProxy     bool
}

type Server struct {
	addr   string
	router *chi.Mux
	logger logging.Logger
}

func NewServer(h *handlers.Handlers, opts Options, logger logging.Logger) *Server {
	s := &Server{
		addr:   opts.Addr,
		router: chi.NewRouter(),
		logger: logger.With("module", "http_server"),
	}

	s.setupMiddleware(h, opts)
	s.setupRoutes(h, opts)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// CORS builds the cross-origin middleware shared by both adapters.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func (s *Server) setupMiddleware(h *handlers.Handlers, opts Options) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(h.AccessLog)
	s.router.Use(h.Recover)
	s.router.Use(CORS(opts.AllowedOrigins))
}

func (s *Server) setupRoutes(h *handlers.Handlers, opts Options) {
	s.router.NotFound(h.NotFound)
	s.router.MethodNotAllowed(h.MethodNotAllowed)

	s.router.Route("/api", func(r chi.Router) {
		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)

		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.Limiter != nil {
					r.Use(h.RateLimit(opts.Limiter))
				}
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Get("/me", h.Me)
				r.Post("/vault-passkey", h.SetVaultPasskey)
				r.Post("/verify-vault-passkey", h.VerifyVaultPasskey)
				if h.ExportsEnabled() {
					r.Post("/export", h.Export)
				}
			})
		})

		r.Route("/passwords", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", h.ListPasswords)
			r.Post("/", h.CreatePassword)
			r.Get("/{id}", h.GetPassword)
			r.Put("/{id}", h.UpdatePassword)
			r.Delete("/{id}", h.DeletePassword)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/stats", h.TaskStats)
			r.Get("/{id}", h.GetTask)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
		})

		r.Route("/websites", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", h.ListWebsites)
			r.Post("/", h.CreateWebsite)
			r.Get("/{id}", h.GetWebsite)
			r.Put("/{id}", h.UpdateWebsite)
			r.Delete("/{id}", h.DeleteWebsite)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/", h.ListVideos)
			r.Post("/", h.CreateVideo)
			r.Post("/fetch-info", h.FetchVideoInfo)
			r.Get("/{id}", h.GetVideo)
			r.Put("/{id}", h.UpdateVideo)
			r.Delete("/{id}", h.DeleteVideo)
		})
	})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	return ListenAndServe(ctx, s.addr, s, s.logger)
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
		}
	}()

	logger.Info(ctx, "Starting HTTP server", "address", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// URLParam reads chi path parameters for the shared handlers.
func URLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
