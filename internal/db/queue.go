package db

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/motoriq/fieldsync/internal/models"
)

// Enqueue appends a remote-bound write to the durable mutation queue with
// retries = 0. It returns once the item is persisted, so a crash or
// disconnect between issue and apply cannot lose the write.
func (db *DB) Enqueue(table string, op models.Operation, data json.RawMessage) (*models.SyncQueueItem, error) {
	item := &models.SyncQueueItem{
		Table:     table,
		Op:        op,
		Data:      data,
		Retries:   0,
		CreatedAt: time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		return nil, storageError("enqueue", err)
	}
	return item, nil
}

// ListQueueInOrder returns all pending queue items in strict creation order.
func (db *DB) ListQueueInOrder() ([]models.SyncQueueItem, error) {
	var items []models.SyncQueueItem
	if err := db.Order("id").Find(&items).Error; err != nil {
		return nil, storageError("list queue", err)
	}
	return items, nil
}

// RemoveQueueItem deletes a queue item after it was applied remotely.
func (db *DB) RemoveQueueItem(id int64) error {
	if err := db.Delete(&models.SyncQueueItem{}, "id = ?", id).Error; err != nil {
		return storageError("remove queue item", err)
	}
	return nil
}

// IncrementRetries bumps the retry counter of a queue item in place. The
// queue never drops an item on its own; ceiling enforcement belongs to the
// sync manager so the policy can change without touching storage code.
func (db *DB) IncrementRetries(id int64) error {
	err := db.Model(&models.SyncQueueItem{}).
		Where("id = ?", id).
		Update("retries", gorm.Expr("retries + 1")).Error
	if err != nil {
		return storageError("increment retries", err)
	}
	return nil
}

// CountQueueItems returns the mutation backlog size.
func (db *DB) CountQueueItems() (int64, error) {
	var count int64
	if err := db.Model(&models.SyncQueueItem{}).Count(&count).Error; err != nil {
		return 0, storageError("count queue items", err)
	}
	return count, nil
}

// MoveToDeadLetter copies an exhausted queue item into the dead-letter
// collection and removes it from the pending queue in one transaction.
func (db *DB) MoveToDeadLetter(item *models.SyncQueueItem, reason string) error {
	return db.Transaction(func(tx *DB) error {
		letter := &models.DeadLetter{
			QueueID:   item.ID,
			Table:     item.Table,
			Op:        item.Op,
			Data:      item.Data,
			Retries:   item.Retries,
			Reason:    reason,
			CreatedAt: item.CreatedAt,
			DroppedAt: time.Now(),
		}
		if err := tx.Create(letter).Error; err != nil {
			return storageError("dead-letter item", err)
		}
		if err := tx.Delete(&models.SyncQueueItem{}, "id = ?", item.ID).Error; err != nil {
			return storageError("remove exhausted item", err)
		}
		return nil
	})
}

// ListDeadLetters returns dropped items, most recent first.
func (db *DB) ListDeadLetters() ([]models.DeadLetter, error) {
	var letters []models.DeadLetter
	if err := db.Order("dropped_at DESC, id DESC").Find(&letters).Error; err != nil {
		return nil, storageError("list dead letters", err)
	}
	return letters, nil
}
