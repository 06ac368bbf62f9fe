package ingest

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/internal/colmap"
	"github.com/platewise/platewise-backend/internal/transactions"
	"github.com/platewise/platewise-backend/internal/uploads"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
)

type fakeMapper struct {
	mapFn func(ctx context.Context, columns []string) map[string]colmap.Field
}

func (f *fakeMapper) MapColumns(ctx context.Context, columns []string) map[string]colmap.Field {
	if f.mapFn != nil {
		return f.mapFn(ctx, columns)
	}
	return colmap.FallbackMapping(columns)
}

type fakeInvalidator struct {
	bumped []uuid.UUID
}

func (f *fakeInvalidator) BumpGeneration(ctx context.Context, restaurantID uuid.UUID) error {
	f.bumped = append(f.bumped, restaurantID)
	return nil
}

func setupIngestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS transactions`,
		`DROP TABLE IF EXISTS upload_records`,
		`CREATE TABLE transactions (
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
)`,
		`CREATE TABLE upload_records (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  filename TEXT NOT NULL,
  stored_path TEXT,
  file_size INTEGER NOT NULL DEFAULT 0,
  processed INTEGER NOT NULL DEFAULT 0,
  records_processed INTEGER NOT NULL DEFAULT 0,
  records_dropped INTEGER NOT NULL DEFAULT 0,
  error_message TEXT,
  upload_date DATETIME
)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newIngestService(t *testing.T, db *gorm.DB, invalidator DatasetInvalidator) (Service, transactions.Repository, uploads.Service) {
	t.Helper()

	txRepo := transactions.NewRepository(db)
	uploadsSvc, err := uploads.NewService(uploads.NewRepository(db))
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "ingest-test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(txRepo, uploadsSvc, &fakeMapper{}, invalidator, nil, t.TempDir(), logg)
	require.NoError(t, err)
	return svc, txRepo, uploadsSvc
}

func TestIngestPersistsRowsAndCompletesAudit(t *testing.T) {
	db := setupIngestTestDB(t)
	invalidator := &fakeInvalidator{}
	svc, txRepo, _ := newIngestService(t, db, invalidator)
	ctx := context.Background()

	restaurantID := uuid.New()
	csv := strings.Join([]string{
		"Sale_Date,Item_Description,Unit_Price,Qty_Sold,Payment_Type",
		"2026-03-01,Burger,5.00,3,Cash",
		"2026-03-01,Fries,2.50,1,Credit Card",
		"not a date,Broken,1.00,1,Cash",
	}, "\n")

	record, err := svc.Ingest(ctx, IngestInput{
		RestaurantID: restaurantID,
		Filename:     "sales.csv",
		File:         strings.NewReader(csv),
	})
	require.NoError(t, err)

	assert.True(t, record.Processed)
	assert.Equal(t, 2, record.RecordsProcessed)
	assert.Equal(t, 1, record.RecordsDropped)
	assert.Equal(t, int64(len(csv)), record.FileSize)
	require.NotNil(t, record.StoredPath)

	rows, err := txRepo.Query(ctx, restaurantID, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]int{}
	for i, row := range rows {
		byName[row.ItemName] = i
	}
	burger := rows[byName["Burger"]]
	assert.True(t, burger.TotalAmount.Equal(burger.Price.Mul(decimal.NewFromInt(3))))

	require.Len(t, invalidator.bumped, 1)
	assert.Equal(t, restaurantID, invalidator.bumped[0])
}

func TestIngestRejectsNonCSVFilename(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, _, _ := newIngestService(t, db, nil)

	_, err := svc.Ingest(context.Background(), IngestInput{
		RestaurantID: uuid.New(),
		Filename:     "sales.xlsx",
		File:         strings.NewReader("Date\n2026-01-01\n"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestIngestRequiresDateMapping(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, _, uploadsSvc := newIngestService(t, db, nil)
	ctx := context.Background()
	restaurantID := uuid.New()

	_, err := svc.Ingest(ctx, IngestInput{
		RestaurantID: restaurantID,
		Filename:     "sales.csv",
		File:         strings.NewReader("Weather,Mood\nsunny,happy\n"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// The rejected attempt still lands in the audit trail.
	records, err := uploadsSvc.List(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Processed)
	require.NotNil(t, records[0].ErrorMessage)
	assert.Contains(t, *records[0].ErrorMessage, "transaction date")
}

func TestIngestRecordsFailedAuditForUndecodableFile(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, _, uploadsSvc := newIngestService(t, db, nil)
	ctx := context.Background()
	restaurantID := uuid.New()

	_, err := svc.Ingest(ctx, IngestInput{
		RestaurantID: restaurantID,
		Filename:     "sales.csv",
		File:         strings.NewReader(""),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	records, err := uploadsSvc.List(ctx, restaurantID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Processed)
	assert.Equal(t, 0, records[0].RecordsProcessed)
	require.NotNil(t, records[0].ErrorMessage)
}

func TestIngestUserMappingWinsOverSuggestions(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, txRepo, _ := newIngestService(t, db, nil)
	ctx := context.Background()

	restaurantID := uuid.New()
	// "description" would fall back to item_name; the explicit mapping sends
	// it to notes instead and maps item elsewhere.
	csv := "when,what,description,how_much\n2026-03-01,Burger,extra cheese,5.00\n"

	record, err := svc.Ingest(ctx, IngestInput{
		RestaurantID: restaurantID,
		Filename:     "sales.csv",
		File:         strings.NewReader(csv),
		Mapping: map[string]colmap.Field{
			"when":        colmap.FieldDate,
			"what":        colmap.FieldItemName,
			"description": colmap.FieldNotes,
			"how_much":    colmap.FieldPrice,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, record.RecordsProcessed)

	rows, err := txRepo.Query(ctx, restaurantID, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Burger", rows[0].ItemName)
	require.NotNil(t, rows[0].Notes)
	assert.Equal(t, "extra cheese", *rows[0].Notes)
}

func TestPreviewColumnsReturnsHeadersAndSuggestions(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, _, _ := newIngestService(t, db, nil)

	preview, err := svc.PreviewColumns(context.Background(), "sales.csv",
		strings.NewReader("Sale_Date,Unit_Price\n2026-01-01,5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sale_Date", "Unit_Price"}, preview.Columns)
	assert.Equal(t, colmap.FieldDate, preview.SuggestedMapping["Sale_Date"])
	assert.Equal(t, colmap.FieldPrice, preview.SuggestedMapping["Unit_Price"])
}

func TestPreviewColumnsRejectsNonCSV(t *testing.T) {
	db := setupIngestTestDB(t)
	svc, _, _ := newIngestService(t, db, nil)

	_, err := svc.PreviewColumns(context.Background(), "sales.pdf", strings.NewReader("x"))
	require.Error(t, err)
}
