package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bibliotube/internal/buildinfo"
	"github.com/dmitrijs2005/bibliotube/internal/client/cli"
	"github.com/dmitrijs2005/bibliotube/internal/client/config"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
)

func main() {

	buildinfo.Print(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(logging.ParseLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
