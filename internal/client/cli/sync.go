package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bibliotube/internal/client/backup"
)

// Sync runs a bidirectional pass with the cloud library.
func (a *App) Sync(ctx context.Context) error {
	rep, err := a.library.Sync(ctx)
	if err != nil {
		return err
	}
	a.lastFolders, a.lastVideos, a.lastReminders = nil, nil, nil
	a.println("Sync finished:", rep.String())
	return nil
}

// Export uploads a JSON snapshot of the library to the configured bucket.
func (a *App) Export(ctx context.Context) error {
	uid, err := a.auth.UserID()
	if err != nil {
		return err
	}
	key, err := a.exporter.Export(ctx, uid)
	if errors.Is(err, backup.ErrDisabled) {
		a.println("Export is not configured; set an S3 bucket with -b.")
		return nil
	}
	if err != nil {
		return err
	}
	a.println("Library exported to", key)
	return nil
}
