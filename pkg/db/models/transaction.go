package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one normalized sales line persisted from a CSV upload.
// TimeOfDay is kept as "HH:MM:SS" text since source files carry wall-clock
// times with no date or zone attached.
type Transaction struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID  uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	TransactionID *string         `gorm:"column:transaction_id"`
	Date          time.Time       `gorm:"column:date;type:date;not null;index"`
	TimeOfDay     *string         `gorm:"column:time_of_day"`
	ItemName      string          `gorm:"column:item_name;not null"`
	Category      *string         `gorm:"column:category"`
	Quantity      int             `gorm:"column:quantity;not null;default:1"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	PurchaseType  *string         `gorm:"column:purchase_type"`
	Manager       string          `gorm:"column:manager;not null;default:'Unknown'"`
	City          string          `gorm:"column:city;not null;default:'Unknown'"`
	CustomerID    *string         `gorm:"column:customer_id"`
	StaffID       *string         `gorm:"column:staff_id"`
	Notes         *string         `gorm:"column:notes"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
