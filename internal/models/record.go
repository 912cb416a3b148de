package models

import (
	"encoding/json"
	"time"
)

// Collection names for cached remote entities.
const (
	CollectionWorkOrders   = "work_orders"
	CollectionWorkSessions = "work_sessions"
	CollectionProcedures   = "procedures"
)

// Collections lists every record collection the store manages.
// ClearAll iterates this set so a new collection only needs to be added here.
var Collections = []string{
	CollectionWorkOrders,
	CollectionWorkSessions,
	CollectionProcedures,
}

// CachedRecord is a locally cached snapshot of a remote entity.
// The payload is opaque JSON; the store never interprets it. Records are
// overwritten in place on every put and only removed by DeleteRecord or
// ClearAll.
type CachedRecord struct {
	Collection   string          `gorm:"primaryKey;size:64" json:"collection"`
	ID           string          `gorm:"primaryKey;size:255" json:"id"`
	Payload      json.RawMessage `json:"payload"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}

// TableName specifies the table name for GORM.
func (CachedRecord) TableName() string {
	return "cached_records"
}
