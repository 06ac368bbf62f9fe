package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadRecord is the audit row for a single CSV ingestion attempt.
type UploadRecord struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID     uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Filename         string    `gorm:"column:filename;not null"`
	StoredPath       *string   `gorm:"column:stored_path"`
	FileSize         int64     `gorm:"column:file_size;not null;default:0"`
	Processed        bool      `gorm:"column:processed;not null;default:false"`
	RecordsProcessed int       `gorm:"column:records_processed;not null;default:0"`
	RecordsDropped   int       `gorm:"column:records_dropped;not null;default:0"`
	ErrorMessage     *string   `gorm:"column:error_message"`
	UploadDate       time.Time `gorm:"column:upload_date;autoCreateTime"`
}

func (u *UploadRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
