package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	LogDir   string // Log files directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "fieldsync.db"),
		LogDir:   filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory, following the
// platform's data-directory convention.
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "fieldsync")
}
