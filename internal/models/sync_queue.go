package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of remote write a queue item replays.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// SyncQueueItem is one pending remote-bound write. Items are appended with
// an auto-assigned monotonically increasing ID and drained in strict ID
// order. Data carries the full payload, including the primary key for
// update/delete. The queue itself never drops an item; the retry ceiling is
// enforced by the sync manager.
type SyncQueueItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Table     string          `gorm:"column:target_table;size:64" json:"table"`
	Op        Operation       `gorm:"size:16" json:"operation"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `gorm:"default:0" json:"retries"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (SyncQueueItem) TableName() string {
	return "sync_queue_items"
}

// DeadLetter preserves a queue item that exhausted its retries. The sync
// manager copies the item here before removing it from the pending queue,
// so "silent drop" behavior is kept for callers without actually destroying
// the data.
type DeadLetter struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	QueueID   int64           `gorm:"index" json:"queue_id"`
	Table     string          `gorm:"column:target_table;size:64" json:"table"`
	Op        Operation       `gorm:"size:16" json:"operation"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Reason    string          `gorm:"size:500" json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
	DroppedAt time.Time       `json:"dropped_at"`
}

// TableName specifies the table name for GORM.
func (DeadLetter) TableName() string {
	return "dead_letters"
}
