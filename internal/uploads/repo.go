package uploads

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/pkg/db/models"
)

// Repository manages persistence for upload audit records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.UploadRecord) error
	Update(ctx context.Context, record *models.UploadRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UploadRecord, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.UploadRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an uploads repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.UploadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *models.UploadRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.UploadRecord, error) {
	var record models.UploadRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.UploadRecord, error) {
	var records []models.UploadRecord
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("upload_date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
