package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motoriq/fieldsync/internal/models"
)

// StagePhoto stores a captured image in the staging area with Uploaded set
// to false. A locally generated id is assigned when the caller provides
// none; the id stays stable across upload attempts.
func (db *DB) StagePhoto(photo *models.StagedPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if photo.StagedAt.IsZero() {
		photo.StagedAt = time.Now()
	}
	if err := db.Create(photo).Error; err != nil {
		return storageError("stage photo", err)
	}
	return nil
}

// GetPhoto retrieves a staged photo by id, or (nil, nil) if absent.
func (db *DB) GetPhoto(id string) (*models.StagedPhoto, error) {
	var photo models.StagedPhoto
	err := db.First(&photo, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, storageError("get photo", err)
	}
	return &photo, nil
}

// ListPhotos returns every staged photo, uploaded or not.
func (db *DB) ListPhotos() ([]models.StagedPhoto, error) {
	var photos []models.StagedPhoto
	if err := db.Order("staged_at, id").Find(&photos).Error; err != nil {
		return nil, storageError("list photos", err)
	}
	return photos, nil
}

// ListPendingPhotos returns photos not yet pushed to remote blob storage.
func (db *DB) ListPendingPhotos() ([]models.StagedPhoto, error) {
	var photos []models.StagedPhoto
	err := db.Where("uploaded = ?", false).Order("staged_at, id").Find(&photos).Error
	if err != nil {
		return nil, storageError("list pending photos", err)
	}
	return photos, nil
}

// MarkPhotoUploaded flips the uploaded flag once the binary exists remotely.
// The record itself is retained as a local thumbnail cache.
func (db *DB) MarkPhotoUploaded(id string) error {
	now := time.Now()
	err := db.Model(&models.StagedPhoto{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"uploaded": true, "uploaded_at": now}).Error
	if err != nil {
		return storageError("mark photo uploaded", err)
	}
	return nil
}

// CountPendingPhotos returns the photo-upload backlog size.
func (db *DB) CountPendingPhotos() (int64, error) {
	var count int64
	err := db.Model(&models.StagedPhoto{}).Where("uploaded = ?", false).Count(&count).Error
	if err != nil {
		return 0, storageError("count pending photos", err)
	}
	return count, nil
}
