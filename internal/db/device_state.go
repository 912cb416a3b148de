package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motoriq/fieldsync/internal/models"
)

// GetDeviceState retrieves the per-device sync bookkeeping row.
func (db *DB) GetDeviceState() (*models.DeviceState, error) {
	var state models.DeviceState
	err := db.Where("id = ?", "default").First(&state).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.DeviceState{ID: "default"}, nil
		}
		return nil, storageError("get device state", err)
	}
	return &state, nil
}

// GetOrCreateTrackingID returns the persistent anonymous tracking ID,
// generating one on first use. Implements telemetry.TrackingIDProvider.
func (db *DB) GetOrCreateTrackingID() string {
	state, err := db.GetDeviceState()
	if err != nil {
		return uuid.New().String()
	}
	if state.TrackingID != "" {
		return state.TrackingID
	}

	state.TrackingID = uuid.New().String()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_id", "updated_at"}),
	}).Create(state).Error
	if err != nil {
		return uuid.New().String()
	}
	return state.TrackingID
}

// RecordSyncCompleted stamps the device state after a successful sync pass.
func (db *DB) RecordSyncCompleted(at time.Time) error {
	err := db.Model(&models.DeviceState{}).
		Where("id = ?", "default").
		Updates(map[string]interface{}{
			"last_sync_at": at,
			"sync_version": gorm.Expr("sync_version + 1"),
		}).Error
	if err != nil {
		return storageError("record sync completed", err)
	}
	return nil
}
