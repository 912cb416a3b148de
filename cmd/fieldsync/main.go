// FieldSync - offline-first sync engine for field service data
//
// Caches work orders locally and replays staged photos and pending
// writes to the remote backend when connectivity allows.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/motoriq/fieldsync/internal/cli"
	"github.com/motoriq/fieldsync/internal/config"
	"github.com/motoriq/fieldsync/internal/db"
	"github.com/motoriq/fieldsync/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Load config and open the local store for the persistent tracking ID
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = database.Close()
	}()

	telemetryClient := telemetry.New(database)
	defer telemetryClient.Close()

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}
