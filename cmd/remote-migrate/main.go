// Command remote-migrate prepares the cloud library: it applies the
// PostgreSQL migrations and purges expired refresh tokens.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bibliotube/internal/buildinfo"
	"github.com/dmitrijs2005/bibliotube/internal/client/config"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/remote/identity"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/repomanager"
)

func main() {

	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(logging.ParseLevel(cfg.LogLevel)).With("module", "remote-migrate")

	db, err := repomanager.Open(ctx, cfg.RemoteDSN)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer db.Close()

	mgr := repomanager.NewPostgresRepositoryManager()
	if err := mgr.RunMigrations(ctx, db); err != nil {
		logger.Error(ctx, "migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "remote schema is up to date")

	svc := identity.NewService(db, mgr, identity.Config{
		Secret:     []byte(cfg.SecretKey),
		AccessTTL:  cfg.AccessTokenValidityDuration,
		RefreshTTL: cfg.RefreshTokenValidityDuration,
	})
	n, err := svc.PurgeExpired(ctx)
	if err != nil {
		logger.Error(ctx, "purging expired refresh tokens failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "expired refresh tokens purged", "count", n)
}
