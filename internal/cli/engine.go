package cli

import (
	"fmt"

	"github.com/motoriq/fieldsync/internal/config"
	"github.com/motoriq/fieldsync/internal/db"
	"github.com/motoriq/fieldsync/internal/log"
	"github.com/motoriq/fieldsync/internal/remote"
	syncengine "github.com/motoriq/fieldsync/internal/sync"
)

// engine bundles everything a command needs to talk to the offline layer.
type engine struct {
	cfg     *config.Config
	store   *db.DB
	manager *syncengine.Manager
	logger  *log.Logger
}

// openEngine loads config, opens the local store, and wires the sync
// manager. Callers must Close when done.
func openEngine(cmdName string) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, trackCLIError(cmdName, fmt.Errorf("load config: %w", err))
	}
	if cfg.Remote.APIURL == "" {
		return nil, trackCLIError(cmdName, fmt.Errorf("config: FIELDSYNC_API_URL is not set"))
	}

	paths := config.GetPaths(cfg)
	store, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, trackCLIError(cmdName, fmt.Errorf("open local store: %w", err))
	}

	logger, err := log.New(paths.LogDir)
	if err != nil {
		logger = log.Discard()
	}

	service := remote.NewClient(cfg.Remote.APIURL, cfg.Remote.APIKey, cfg.Remote.RateLimit)
	blobs := remote.NewBlobClient(cfg.Remote.BlobURL, cfg.Remote.APIKey, cfg.Remote.PhotoBucket)
	probe := remote.NewProbe(cfg.Remote.APIURL + "/rest/v1/")

	manager, err := syncengine.NewManager(syncengine.ManagerConfig{
		Store:        store,
		Service:      service,
		Blobs:        blobs,
		Connectivity: probe,
		Logger:       logger,
		Telemetry:    telemetryClient,
		Interval:     cfg.Sync.Interval,
		RetryCeiling: cfg.Sync.RetryCeiling,
	})
	if err != nil {
		_ = store.Close()
		return nil, trackCLIError(cmdName, fmt.Errorf("build sync manager: %w", err))
	}

	return &engine{cfg: cfg, store: store, manager: manager, logger: logger}, nil
}

// Close releases the store and log file.
func (e *engine) Close() {
	_ = e.store.Close()
	if e.logger != nil {
		_ = e.logger.Close()
	}
}
