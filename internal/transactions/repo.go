package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/pkg/db/models"
)

// appendBatchSize bounds how many rows go into a single INSERT. Each batch
// commits on its own, so a failure partway through a large file keeps the
// batches already written.
const appendBatchSize = 1000

// Repository manages persistence for sales transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, rows []models.Transaction) (int, error)
	Query(ctx context.Context, restaurantID uuid.UUID, start, end *time.Time) ([]models.Transaction, error)
	List(ctx context.Context, restaurantID uuid.UUID, offset, limit int) ([]models.Transaction, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transactions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Append writes rows in fixed-size batches, committing each batch
// individually. It returns how many rows made it in, which on error is the
// count from the batches that committed before the failure.
func (r *repository) Append(ctx context.Context, rows []models.Transaction) (int, error) {
	written := 0
	for start := 0; start < len(rows); start += appendBatchSize {
		end := start + appendBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		if err := r.db.WithContext(ctx).Create(&batch).Error; err != nil {
			return written, err
		}
		written += len(batch)
	}
	return written, nil
}

// Query returns transactions for a restaurant, optionally bounded by date.
// Nil bounds mean the full dataset. Results come back in insertion order so
// aggregation output stays stable across calls.
func (r *repository) Query(ctx context.Context, restaurantID uuid.UUID, start, end *time.Time) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)

	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}

	var txs []models.Transaction
	if err := q.Order("created_at ASC, id ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) List(ctx context.Context, restaurantID uuid.UUID, offset, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
