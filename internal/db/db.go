// Package db provides the GORM-based durable store for FieldSync.
// It uses the pure-Go SQLite driver so field devices need no cgo toolchain.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motoriq/fieldsync/internal/models"
)

// ErrStorageUnavailable indicates the underlying storage medium could not be
// reached. It is fatal to the calling operation and surfaced to the caller.
var ErrStorageUnavailable = errors.New("storage unavailable")

// DB wraps the GORM database connection with FieldSync-specific operations.
type DB struct {
	*gorm.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New opens the database, runs migrations, and seeds the device state row.
// It is the only open path: the store is constructed once during application
// bootstrap and injected into consumers, never lazily opened per call.
func New(cfg Config) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Configure GORM logger
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// Build DSN with DELETE journal mode for simpler transaction handling
	// (WAL mode has visibility issues with the pure-Go SQLite driver)
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true, // Better performance for read operations
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	wrapped := &DB{DB: db, path: cfg.Path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := wrapped.seedDeviceState(); err != nil {
		return nil, fmt.Errorf("seed device state: %w", err)
	}

	return wrapped, nil
}

// migrate runs GORM auto-migrations for all models.
func (db *DB) migrate() error {
	return db.AutoMigrate(
		&models.CachedRecord{},
		&models.StagedPhoto{},
		&models.SyncQueueItem{},
		&models.DeadLetter{},
		&models.DeviceState{},
	)
}

// seedDeviceState inserts the default device state row if not present.
func (db *DB) seedDeviceState() error {
	defaultState := models.DeviceState{
		ID: "default",
	}

	result := db.Where("id = ?", "default").FirstOrCreate(&defaultState)
	return result.Error
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a database transaction.
// The callback receives a *DB wrapper that uses the transaction.
func (d *DB) Transaction(fc func(tx *DB) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		wrappedTx := &DB{DB: tx, path: d.path}
		return fc(wrappedTx)
	})
}

// ClearAll removes every record across all collections, the photo staging
// area, the mutation queue, the dead-letter collection, and the device
// state. Used by logout and storage-reset flows.
func (db *DB) ClearAll() error {
	return db.Transaction(func(tx *DB) error {
		session := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.CachedRecord{},
			&models.StagedPhoto{},
			&models.SyncQueueItem{},
			&models.DeadLetter{},
			&models.DeviceState{},
		} {
			if err := session.Delete(model).Error; err != nil {
				return storageError("clear all", err)
			}
		}
		return nil
	})
}

// StorageUsed reports the on-disk size of the database file in bytes.
func (db *DB) StorageUsed() int64 {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// storageError wraps a low-level database error as ErrStorageUnavailable so
// callers can detect storage failure without matching driver error strings.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
}
