package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/remote/migrations"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/folders"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/refreshtokens"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/users"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/videos"
	"github.com/dmitrijs2005/bibliotube/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager is the RepositoryManager for the PostgreSQL
// backend.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Folders(db dbx.DBTX) store.FolderRepository {
	return folders.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Videos(db dbx.DBTX) store.VideoRepository {
	return videos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reminders(db dbx.DBTX) store.ReminderRepository {
	return reminders.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Store(db dbx.DBTX) store.Store {
	return store.Store{
		Folders:   m.Folders(db),
		Videos:    m.Videos(db),
		Reminders: m.Reminders(db),
	}
}

// gooseUpContext is a test seam over goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to the PostgreSQL DSN through the pgx stdlib driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open remote db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping remote db: %w", err)
	}
	return db, nil
}
