package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/remember/internal/dbx"
	"github.com/dmitrijs2005/remember/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/remember/internal/server/repositories/users"
	"github.com/dmitrijs2005/remember/internal/server/repositories/vaultentries"
	"github.com/dmitrijs2005/remember/internal/server/repositories/videos"
	"github.com/dmitrijs2005/remember/internal/server/repositories/websites"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VaultEntries(db dbx.DBTX) vaultentries.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Websites(db dbx.DBTX) websites.Repository
	Videos(db dbx.DBTX) videos.Repository
}
