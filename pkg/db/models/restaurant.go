package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Restaurant is the tenant every upload and transaction hangs off.
type Restaurant struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	ContactEmail *string        `gorm:"column:contact_email"`
	City         *string        `gorm:"column:city"`
	Cuisines     pq.StringArray `gorm:"column:cuisines;type:text[];default:ARRAY[]::text[]"`
	Transactions []Transaction  `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Uploads      []UploadRecord `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
