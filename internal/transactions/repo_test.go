package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/pkg/db/models"
)

func setupTransactionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  transaction_id TEXT,
  date DATETIME NOT NULL,
  time_of_day TEXT,
  item_name TEXT NOT NULL,
  category TEXT,
  quantity INTEGER NOT NULL DEFAULT 1,
  price NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  payment_method TEXT,
  purchase_type TEXT,
  manager TEXT NOT NULL DEFAULT 'Unknown',
  city TEXT NOT NULL DEFAULT 'Unknown',
  customer_id TEXT,
  staff_id TEXT,
  notes TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS transactions`).Error)
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newTransaction(restaurantID uuid.UUID, day time.Time, item string, total float64) models.Transaction {
	return models.Transaction{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Date:         day,
		ItemName:     item,
		Quantity:     1,
		Price:        decimal.NewFromFloat(total),
		TotalAmount:  decimal.NewFromFloat(total),
		Manager:      "Unknown",
		City:         "Unknown",
	}
}

func TestAppendWritesAllRows(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := make([]models.Transaction, 0, 2500)
	for i := 0; i < 2500; i++ {
		rows = append(rows, newTransaction(restaurantID, day, "Burger", 9.99))
	}

	written, err := repo.Append(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2500, written)

	count, err := repo.CountByRestaurant(ctx, restaurantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), count)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)

	written, err := repo.Append(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
}

func TestQueryFiltersByDateRange(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	_, err := repo.Append(ctx, []models.Transaction{
		newTransaction(restaurantID, jan, "Soup", 5),
		newTransaction(restaurantID, feb, "Salad", 8),
		newTransaction(restaurantID, mar, "Steak", 25),
	})
	require.NoError(t, err)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	got, err := repo.Query(ctx, restaurantID, &start, &end)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Salad", got[0].ItemName)
}

func TestQueryNoBoundsReturnsAll(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	otherID := uuid.New()
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Append(ctx, []models.Transaction{
		newTransaction(restaurantID, day, "Soup", 5),
		newTransaction(restaurantID, day, "Salad", 8),
		newTransaction(otherID, day, "Steak", 25),
	})
	require.NoError(t, err)

	got, err := repo.Query(ctx, restaurantID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListPaginates(t *testing.T) {
	db := setupTransactionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurantID := uuid.New()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, []models.Transaction{newTransaction(restaurantID, day, "Item", 1)})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, restaurantID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
