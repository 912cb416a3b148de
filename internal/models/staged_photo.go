package models

import "time"

// Photo types captured in the field.
const (
	PhotoTypeBefore    = "before"
	PhotoTypeAfter     = "after"
	PhotoTypeStep      = "step"
	PhotoTypeNameplate = "nameplate"
)

// StagedPhoto is a captured image held locally until its binary has been
// pushed to remote blob storage. The record is retained after upload and
// doubles as a local thumbnail cache, so Uploaded flips to true but the row
// is never removed by the sync pass. Photos are retried without a ceiling;
// unlike queue items they carry no retry counter at all.
type StagedPhoto struct {
	ID   string `gorm:"primaryKey;size:64" json:"id"`
	Blob []byte `json:"-"`

	// Metadata describing where the photo belongs.
	WorkSessionID    string    `gorm:"size:255;index" json:"work_session_id,omitempty"`
	StepCompletionID string    `gorm:"size:255" json:"step_completion_id,omitempty"`
	PhotoType        string    `gorm:"size:32" json:"photo_type"`
	Caption          string    `gorm:"size:500" json:"caption,omitempty"`
	TakenBy          string    `gorm:"size:255" json:"taken_by"`
	TakenAt          time.Time `json:"taken_at"`

	Uploaded   bool       `gorm:"default:false;index" json:"uploaded"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
	StagedAt   time.Time  `json:"staged_at"`
}

// TableName specifies the table name for GORM.
func (StagedPhoto) TableName() string {
	return "staged_photos"
}
