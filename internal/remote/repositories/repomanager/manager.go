// Package repomanager vends the cloud database repositories bound to a
// *sql.DB or *sql.Tx, and applies the cloud schema.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/refreshtokens"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/users"
	"github.com/dmitrijs2005/bibliotube/internal/store"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Folders(db dbx.DBTX) store.FolderRepository
	Videos(db dbx.DBTX) store.VideoRepository
	Reminders(db dbx.DBTX) store.ReminderRepository
	// Store bundles the library repositories for the sync engine.
	Store(db dbx.DBTX) store.Store
}
