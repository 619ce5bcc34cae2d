// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/migrations"
	"github.com/dmitrijs2005/remember/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/remember/internal/server/repositories/users"
	"github.com/dmitrijs2005/remember/internal/server/repositories/vaultentries"
	"github.com/dmitrijs2005/remember/internal/server/repositories/videos"
	"github.com/dmitrijs2005/remember/internal/server/repositories/websites"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) VaultEntries(db dbx.DBTX) vaultentries.Repository {
	return vaultentries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Websites(db dbx.DBTX) websites.Repository {
	return websites.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Videos(db dbx.DBTX) videos.Repository {
	return videos.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
