// Package server wires the ReMember backend together: it opens the database,
// runs migrations, builds the services and serves them over HTTP, either
// behind the chi router or as serverless functions, next to a gRPC health
// endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/remember/internal/cryptox"
	"github.com/dmitrijs2005/remember/internal/logging"
	"github.com/dmitrijs2005/remember/internal/ratelimit"
	"github.com/dmitrijs2005/remember/internal/server/config"
	"github.com/dmitrijs2005/remember/internal/server/handlers"
	"github.com/dmitrijs2005/remember/internal/server/httpapi"
	"github.com/dmitrijs2005/remember/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/remember/internal/server/response"
	"github.com/dmitrijs2005/remember/internal/server/serverless"
	"github.com/dmitrijs2005/remember/internal/server/services"
	"github.com/dmitrijs2005/remember/internal/server/storage"
	"github.com/dmitrijs2005/remember/internal/server/youtube"
	"github.com/dmitrijs2005/remember/internal/validation"

	gs "github.com/dmitrijs2005/remember/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout     = 5 * time.Second
	rateLimiterTTL  = 10 * time.Minute
	maxOpenDBConns  = 10
	connMaxIdleTime = 5 * time.Minute
	driverName      = "pgx"
)

// openDB is replaced in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open(driverName, dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	users    *services.UserService
	vault    *services.VaultService
	tasks    *services.TaskService
	websites *services.WebsiteService
	videos   *services.VideoService
	exports  *services.ExportService
}

// NewApp connects to the database, applies migrations and builds the
// services. The returned App owns the connection pool.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, c.IsProduction())

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(maxOpenDBConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	app, err := newApp(ctx, c, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, logger logging.Logger) (*App, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	cipher, err := cryptox.NewCipher(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("vault cipher error: %w", err)
	}

	v := validation.New()
	yt := youtube.NewClient(c.YouTubeBaseURL, c.FetchTimeout, logger)

	app := &App{
		config:   c,
		logger:   logger,
		db:       db,
		users:    services.NewUserService(db, rm, v, c),
		vault:    services.NewVaultService(db, rm, v, cipher),
		tasks:    services.NewTaskService(db, rm, v),
		websites: services.NewWebsiteService(db, rm, v),
		videos:   services.NewVideoService(db, rm, v, yt),
	}

	if c.ExportsEnabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("object storage error: %w", err)
		}
		app.exports = services.NewExportService(db, rm, store)
	}

	return app, nil
}

// buildHandlers builds the shared handler set for an adapter's path parameter
// reader.
func (app *App) buildHandlers(param handlers.ParamFunc) *handlers.Handlers {
	deps := handlers.Deps{
		Users:     app.users,
		Vault:     app.vault,
		Tasks:     app.tasks,
		Websites:  app.websites,
		Videos:    app.videos,
		DB:        app.db,
		Writer:    response.NewWriter(app.logger, !app.config.IsProduction()),
		Logger:    app.logger,
		JWTSecret: app.config.SecretKey,
		Param:     param,
	}
	// A nil *ExportService must not become a non-nil interface.
	if app.exports != nil {
		deps.Exports = app.exports
	}
	return handlers.New(deps)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCHealth(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.GRPCHealthAddr == "" {
		return
	}

	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.db, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC health server failed", "error", err)
		cancelFunc()
	}
}

// Run serves the chi router and the gRPC health endpoint until ctx is
// cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	limiter := ratelimit.New(app.config.AuthRateLimitRPS, app.config.AuthRateLimitBurst, rateLimiterTTL)
	defer limiter.Stop()

	srv := httpapi.NewServer(app.buildHandlers(httpapi.URLParam), httpapi.Options{
		Addr:           app.config.HTTPAddr,
		AllowedOrigins: app.config.AllowedOrigins,
		Limiter:        limiter,
		TrustProxy:     app.config.TrustProxy,
	}, app.logger)

	return app.serve(ctx, srv.Run)
}

// RunFunctions serves the serverless function set on the HTTP address, for
// hosts that forward all traffic to one binary and for local runs.
func (app *App) RunFunctions(ctx context.Context) error {
	fns := serverless.New(app.buildHandlers(serverless.Param), app.config.AllowedOrigins)

	return app.serve(ctx, func(ctx context.Context) error {
		return httpapi.ListenAndServe(ctx, app.config.HTTPAddr, fns.Mux(), app.logger)
	})
}

func (app *App) serve(ctx context.Context, runHTTP func(context.Context) error) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "exports", app.exports != nil)

	app.initSignalHandler(cancelFunc)

	var (
		wg      sync.WaitGroup
		httpErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if httpErr = runHTTP(ctx); httpErr != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", httpErr)
		}
		cancelFunc()
	}()
	go func() {
		defer wg.Done()
		app.startGRPCHealth(ctx, cancelFunc)
	}()

	wg.Wait()

	return httpErr
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}
