package models

import "time"

// DeviceState tracks per-device sync bookkeeping. There is exactly one row
// with ID "default".
type DeviceState struct {
	ID          string     `gorm:"primaryKey;size:32" json:"id"`
	TrackingID  string     `gorm:"size:64" json:"tracking_id"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	SyncVersion int        `gorm:"default:0" json:"sync_version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (DeviceState) TableName() string {
	return "device_states"
}
