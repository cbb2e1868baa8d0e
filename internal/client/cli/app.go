package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/client/backup"
	"github.com/dmitrijs2005/bibliotube/internal/client/capture"
	"github.com/dmitrijs2005/bibliotube/internal/client/config"
	"github.com/dmitrijs2005/bibliotube/internal/client/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/folders"
	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/metadata"
	reminderrepo "github.com/dmitrijs2005/bibliotube/internal/client/repositories/reminders"
	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/videos"
	"github.com/dmitrijs2005/bibliotube/internal/client/services"
	"github.com/dmitrijs2005/bibliotube/internal/client/storage"
	"github.com/dmitrijs2005/bibliotube/internal/client/syncer"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/remote/identity"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/repomanager"
	"github.com/dmitrijs2005/bibliotube/internal/store"
)

// App is the terminal front-end. It also acts as the capture Navigator and
// Confirmer, so captured links end up in the quick save form.
type App struct {
	config *config.Config
	log    logging.Logger

	localDB  *sql.DB
	remoteDB *sql.DB

	auth     *services.AuthService
	library  *services.LibraryService
	quick    *services.QuickSaveService
	exporter *backup.Exporter
	capture  *capture.Coordinator

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	// Last listings, so commands can take a 1-based index.
	lastFolders   []models.Folder
	lastVideos    []models.Video
	lastReminders []models.Reminder

	currentFolder models.Folder
	currentVideo  models.Video
}

// NewApp opens both libraries and wires the services. The remote schema is
// expected to be migrated already (see cmd/remote-migrate).
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	path, err := c.LocalDBFile()
	if err != nil {
		return nil, fmt.Errorf("error resolving local database path: %w", err)
	}

	localDB, err := storage.Open(ctx, storage.DSN(path))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	remoteDB, err := repomanager.Open(ctx, c.RemoteDSN)
	if err != nil {
		_ = localDB.Close()
		log.Error(ctx, "error connecting to the cloud library", "error", err)
		return nil, err
	}

	mgr := repomanager.NewPostgresRepositoryManager()
	idp := identity.NewService(remoteDB, mgr, identity.Config{
		Secret:     []byte(c.SecretKey),
		AccessTTL:  c.AccessTokenValidityDuration,
		RefreshTTL: c.RefreshTokenValidityDuration,
	})

	a := newApp(c, log, localDB, idp, mgr.Store(remoteDB), bufio.NewReader(os.Stdin), os.Stdout)
	a.remoteDB = remoteDB
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, localDB *sql.DB, idp services.IdentityProvider, remote store.Store, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		log:     log.With("module", "cli"),
		localDB: localDB,
		reader:  reader,
		out:     out,
		now:     time.Now,
	}

	local := localStore(localDB)
	secure := services.NewMetadataSecureStore(metadata.NewSQLiteRepository(localDB))

	a.auth = services.NewAuthService(idp, secure, presencePrompt{app: a}, log)
	a.library = services.NewLibraryService(localDB, a.auth, reminders.NewLogScheduler(log), syncer.New(local, remote, log), log)
	a.quick = services.NewQuickSaveService(a.library, log)
	a.exporter = backup.NewExporter(local, backup.Config{
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}, &http.Client{Timeout: 60 * time.Second}, log)
	a.capture = capture.NewCoordinator(c.AppScheme, a, a, systemClipboard{}, a.auth, log)

	return a
}

func localStore(db dbx.DBTX) store.Store {
	return store.Store{
		Folders:   folders.NewSQLiteRepository(db),
		Videos:    videos.NewSQLiteRepository(db),
		Reminders: reminderrepo.NewSQLiteRepository(db),
	}
}

// Close releases both database handles.
func (a *App) Close() error {
	var errs []error
	if a.localDB != nil {
		errs = append(errs, a.localDB.Close())
	}
	if a.remoteDB != nil {
		errs = append(errs, a.remoteDB.Close())
	}
	return errors.Join(errs...)
}

// Run restores the session, performs the start-up sync and clipboard check
// and then blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.bootstrap(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) bootstrap(ctx context.Context) {
	s, err := a.auth.Restore(ctx)
	switch {
	case err == nil:
		a.println("Welcome back,", s.Email)
	case errors.Is(err, common.ErrNoSavedSession):
		a.println("Type 'register' or 'login' to get started.")
	default:
		a.log.Warn(ctx, "session restore failed", "error", err)
		a.println("Your session has expired, please log in again.")
	}

	if a.isLoggedIn() && a.config.SyncOnStart {
		a.syncQuietly(ctx, "start-up")
	}

	// A launch link is the share the user came with, so the clipboard is
	// left alone.
	if link := a.config.InitialLink; link != "" {
		if err := a.Open(ctx, []string{link}); err != nil {
			a.alert(err)
		}
		return
	}

	if a.config.CheckClipboard {
		if _, err := a.capture.CheckClipboard(ctx); err != nil {
			a.alert(err)
		}
	}
}

// syncQuietly runs a bidirectional pass whose failure is only logged. It is
// used after sign-in and whenever the folder list is shown.
func (a *App) syncQuietly(ctx context.Context, trigger string) {
	rep, err := a.library.Sync(ctx)
	if err != nil {
		a.log.Warn(ctx, "sync failed", "trigger", trigger, "error", err)
		return
	}
	a.lastFolders, a.lastVideos, a.lastReminders = nil, nil, nil
	a.log.Info(ctx, "sync finished", "trigger", trigger, "report", rep.String())
}

func (a *App) isLoggedIn() bool {
	_, err := a.auth.UserID()
	return err == nil
}

func (a *App) status() string {
	s, ok := a.auth.Session()
	if !ok {
		return "guest"
	}
	if a.currentFolder.ID != "" {
		return s.Email + " /" + a.currentFolder.Name
	}
	return s.Email
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// alert prints an error the way the user should see it.
func (a *App) alert(err error) {
	switch {
	case errors.Is(err, common.ErrNoUser):
		a.println("Please log in first.")
	case errors.Is(err, common.ErrNotFound):
		a.println("Not found.")
	default:
		a.println("Error:", err)
	}
}
