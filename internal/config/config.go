// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all FieldSync data
	BaseDir string

	// Remote data service and blob storage settings
	Remote RemoteConfig

	// Sync engine settings
	Sync SyncConfig
}

// RemoteConfig holds remote service connection settings.
type RemoteConfig struct {
	// APIURL is the base URL of the table/row data service.
	APIURL string
	// APIKey authenticates requests to the data service and blob storage.
	APIKey string
	// BlobURL is the base URL of the blob storage gateway. Defaults to
	// APIURL when empty (the usual single-backend deployment).
	BlobURL string
	// PhotoBucket is the blob bucket photo binaries are uploaded into.
	PhotoBucket string
	// RateLimit is the request budget per minute for the data service.
	RateLimit int
}

// SyncConfig holds sync engine tuning.
type SyncConfig struct {
	// Interval between automatic sync passes.
	Interval time.Duration
	// RetryCeiling is the replay attempt limit per mutation.
	RetryCeiling int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if dir := os.Getenv("FIELDSYNC_HOME"); dir != "" {
		cfg.BaseDir = dir
	}

	if url := os.Getenv("FIELDSYNC_API_URL"); url != "" {
		cfg.Remote.APIURL = url
	}
	if key := os.Getenv("FIELDSYNC_API_KEY"); key != "" {
		cfg.Remote.APIKey = key
	}
	if url := os.Getenv("FIELDSYNC_BLOB_URL"); url != "" {
		cfg.Remote.BlobURL = url
	}
	if bucket := os.Getenv("FIELDSYNC_PHOTO_BUCKET"); bucket != "" {
		cfg.Remote.PhotoBucket = bucket
	}

	if raw := os.Getenv("FIELDSYNC_SYNC_INTERVAL"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.Sync.Interval = time.Duration(seconds) * time.Second
		}
	}

	if cfg.Remote.BlobURL == "" {
		cfg.Remote.BlobURL = cfg.Remote.APIURL
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		GetPaths(cfg).LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
