package db

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motoriq/fieldsync/internal/models"
)

// PutRecord inserts or fully replaces the cached record with the same
// collection and id. There are no partial-update semantics.
func (db *DB) PutRecord(rec *models.CachedRecord) error {
	if rec.LastSyncedAt.IsZero() {
		rec.LastSyncedAt = time.Now()
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		return storageError("put record", err)
	}
	return nil
}

// GetRecord retrieves a cached record by collection and id.
// Absence is not an error: it returns (nil, nil).
func (db *DB) GetRecord(collection, id string) (*models.CachedRecord, error) {
	var rec models.CachedRecord
	err := db.First(&rec, "collection = ? AND id = ?", collection, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, storageError("get record", err)
	}
	return &rec, nil
}

// GetAllRecords returns every record in a collection. Order is unspecified;
// callers must not depend on insertion order.
func (db *DB) GetAllRecords(collection string) ([]models.CachedRecord, error) {
	var recs []models.CachedRecord
	if err := db.Find(&recs, "collection = ?", collection).Error; err != nil {
		return nil, storageError("get all records", err)
	}
	return recs, nil
}

// DeleteRecord removes one cached record.
func (db *DB) DeleteRecord(collection, id string) error {
	err := db.Delete(&models.CachedRecord{}, "collection = ? AND id = ?", collection, id).Error
	if err != nil {
		return storageError("delete record", err)
	}
	return nil
}

// putSnapshot marshals a payload and upserts it under the given collection.
func (db *DB) putSnapshot(collection, id string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s %s: %w", collection, id, err)
	}
	return db.PutRecord(&models.CachedRecord{
		Collection: collection,
		ID:         id,
		Payload:    data,
	})
}

// PutWorkOrder caches a work order snapshot.
func (db *DB) PutWorkOrder(wo *models.WorkOrder) error {
	return db.putSnapshot(models.CollectionWorkOrders, wo.ID, wo)
}

// GetWorkOrder retrieves a cached work order, or (nil, nil) if absent.
func (db *DB) GetWorkOrder(id string) (*models.WorkOrder, error) {
	rec, err := db.GetRecord(models.CollectionWorkOrders, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var wo models.WorkOrder
	if err := json.Unmarshal(rec.Payload, &wo); err != nil {
		return nil, fmt.Errorf("unmarshal work order %s: %w", id, err)
	}
	return &wo, nil
}

// GetAllWorkOrders returns every cached work order.
func (db *DB) GetAllWorkOrders() ([]models.WorkOrder, error) {
	recs, err := db.GetAllRecords(models.CollectionWorkOrders)
	if err != nil {
		return nil, err
	}
	orders := make([]models.WorkOrder, 0, len(recs))
	for _, rec := range recs {
		var wo models.WorkOrder
		if err := json.Unmarshal(rec.Payload, &wo); err != nil {
			return nil, fmt.Errorf("unmarshal work order %s: %w", rec.ID, err)
		}
		orders = append(orders, wo)
	}
	return orders, nil
}

// PutWorkSession caches a work session snapshot.
func (db *DB) PutWorkSession(ws *models.WorkSession) error {
	return db.putSnapshot(models.CollectionWorkSessions, ws.ID, ws)
}

// GetWorkSession retrieves a cached work session, or (nil, nil) if absent.
func (db *DB) GetWorkSession(id string) (*models.WorkSession, error) {
	rec, err := db.GetRecord(models.CollectionWorkSessions, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var ws models.WorkSession
	if err := json.Unmarshal(rec.Payload, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal work session %s: %w", id, err)
	}
	return &ws, nil
}

// PutProcedure caches a procedure template snapshot.
func (db *DB) PutProcedure(p *models.Procedure) error {
	return db.putSnapshot(models.CollectionProcedures, p.ID, p)
}

// GetProcedure retrieves a cached procedure template, or (nil, nil) if absent.
func (db *DB) GetProcedure(id string) (*models.Procedure, error) {
	rec, err := db.GetRecord(models.CollectionProcedures, id)
	if err != nil || rec == nil {
		return nil, err
	}
	var p models.Procedure
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshal procedure %s: %w", id, err)
	}
	return &p, nil
}
