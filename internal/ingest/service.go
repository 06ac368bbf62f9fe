package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/internal/colmap"
	"github.com/platewise/platewise-backend/internal/transactions"
	"github.com/platewise/platewise-backend/internal/uploads"
	"github.com/platewise/platewise-backend/pkg/db/models"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
	"github.com/platewise/platewise-backend/pkg/metrics"
)

// DatasetInvalidator is notified after new rows land so cached analytics for
// the restaurant stop being served. The analytics cache satisfies it.
type DatasetInvalidator interface {
	BumpGeneration(ctx context.Context, restaurantID uuid.UUID) error
}

// Preview is the response of a column inspection pass: the raw headers plus
// the mapping the system would apply.
type Preview struct {
	Columns          []string                `json:"columns"`
	SuggestedMapping map[string]colmap.Field `json:"suggested_mapping"`
}

// IngestInput carries everything one CSV ingestion run needs.
type IngestInput struct {
	RestaurantID uuid.UUID
	Filename     string
	File         io.Reader
	Mapping      map[string]colmap.Field
	UseAIMapping bool
}

// Service runs CSV ingestion end to end: decode, map, parse, persist, audit.
type Service interface {
	PreviewColumns(ctx context.Context, filename string, file io.Reader) (*Preview, error)
	Ingest(ctx context.Context, input IngestInput) (*models.UploadRecord, error)
}

type service struct {
	txRepo      transactions.Repository
	uploadsSvc  uploads.Service
	mapper      colmap.Service
	invalidator DatasetInvalidator
	metrics     *metrics.IngestMetrics
	uploadDir   string
	logg        *logger.Logger
}

// NewService wires the ingestion service. invalidator and ingestMetrics may
// be nil when those subsystems are disabled.
func NewService(
	txRepo transactions.Repository,
	uploadsSvc uploads.Service,
	mapper colmap.Service,
	invalidator DatasetInvalidator,
	ingestMetrics *metrics.IngestMetrics,
	uploadDir string,
	logg *logger.Logger,
) (Service, error) {
	if txRepo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if uploadsSvc == nil {
		return nil, fmt.Errorf("uploads service required")
	}
	if mapper == nil {
		return nil, fmt.Errorf("column mapper required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &service{
		txRepo:      txRepo,
		uploadsSvc:  uploadsSvc,
		mapper:      mapper,
		invalidator: invalidator,
		metrics:     ingestMetrics,
		uploadDir:   uploadDir,
		logg:        logg,
	}, nil
}

func (s *service) PreviewColumns(ctx context.Context, filename string, file io.Reader) (*Preview, error) {
	if err := requireCSV(filename); err != nil {
		return nil, err
	}

	header, _, err := ReadCSV(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading csv header")
	}

	return &Preview{
		Columns:          header,
		SuggestedMapping: s.mapper.MapColumns(ctx, header),
	}, nil
}

func (s *service) Ingest(ctx context.Context, input IngestInput) (*models.UploadRecord, error) {
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if err := requireCSV(input.Filename); err != nil {
		return nil, err
	}

	started := time.Now()
	ctx = s.logg.WithRestaurantID(ctx, input.RestaurantID.String())

	raw, err := io.ReadAll(input.File)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload")
	}

	storedPath, err := s.saveFile(input.Filename, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing upload")
	}

	// The ledger row exists before any decoding so rejected files still leave
	// an audit trail.
	record, err := s.uploadsSvc.Begin(ctx, input.RestaurantID, input.Filename, storedPath, int64(len(raw)))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording upload")
	}
	ctx = s.logg.WithUploadID(ctx, record.ID.String())

	header, records, err := ReadCSV(bytes.NewReader(raw))
	if err != nil {
		s.metrics.IncFailure("decode")
		return nil, s.fail(ctx, record.ID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding csv"))
	}

	mapping := s.resolveMapping(ctx, header, input)
	if !mappingHasField(mapping, colmap.FieldDate) {
		s.metrics.IncFailure("mapping")
		return nil, s.fail(ctx, record.ID, pkgerrors.New(pkgerrors.CodeValidation, "no column maps to a transaction date"))
	}

	parsed := Parse(header, records, mapping)
	rows := toTransactions(parsed.Rows, input.RestaurantID)

	written, appendErr := s.txRepo.Append(ctx, rows)
	if appendErr != nil {
		s.metrics.IncFailure("persist")
		s.metrics.ObserveDuration("failure", time.Since(started))
		if _, failErr := s.uploadsSvc.Fail(ctx, record.ID, appendErr.Error(), written); failErr != nil {
			s.logg.Error(ctx, "marking upload as failed", failErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeIngestion, appendErr, "persisting transactions").
			WithDetails(map[string]any{"records_written": written})
	}

	record, err = s.uploadsSvc.Complete(ctx, record.ID, written, parsed.Dropped)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing upload")
	}

	s.metrics.AddRows(input.RestaurantID.String(), written)
	s.metrics.AddDropped(input.RestaurantID.String(), parsed.Dropped)
	s.metrics.ObserveDuration("success", time.Since(started))

	if s.invalidator != nil {
		if err := s.invalidator.BumpGeneration(ctx, input.RestaurantID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "invalidating analytics cache")
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"records_processed": written,
		"records_dropped":   parsed.Dropped,
	}), "csv ingestion completed")

	return record, nil
}

// resolveMapping merges the caller-supplied mapping with mapper suggestions.
// Explicit user choices always win; the mapper only fills unmapped columns.
func (s *service) resolveMapping(ctx context.Context, header []string, input IngestInput) map[string]colmap.Field {
	mapping := make(map[string]colmap.Field, len(input.Mapping))
	for col, field := range input.Mapping {
		mapping[col] = field
	}

	if input.UseAIMapping || len(mapping) == 0 {
		suggested := s.mapper.MapColumns(ctx, header)
		for col, field := range suggested {
			if _, ok := mapping[col]; !ok {
				mapping[col] = field
			}
		}
	}
	return mapping
}

func (s *service) saveFile(filename string, raw []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", s.uploadDir, err)
	}
	path := filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename)))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}

// fail records the rejection on the ledger row and hands the cause back.
func (s *service) fail(ctx context.Context, id uuid.UUID, cause error) error {
	if _, err := s.uploadsSvc.Fail(ctx, id, cause.Error(), 0); err != nil {
		s.logg.Error(ctx, "marking upload as failed", err)
	}
	return cause
}

func toTransactions(rows []Row, restaurantID uuid.UUID) []models.Transaction {
	out := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Transaction{
			RestaurantID:  restaurantID,
			TransactionID: row.TransactionID,
			Date:          row.Date,
			TimeOfDay:     row.TimeOfDay,
			ItemName:      row.ItemName,
			Category:      row.Category,
			Quantity:      row.Quantity,
			Price:         row.Price,
			TotalAmount:   row.TotalAmount,
			PaymentMethod: row.PaymentMethod,
			PurchaseType:  row.PurchaseType,
			Manager:       row.Manager,
			City:          row.City,
			CustomerID:    row.CustomerID,
			StaffID:       row.StaffID,
			Notes:         row.Notes,
		})
	}
	return out
}

func mappingHasField(mapping map[string]colmap.Field, field colmap.Field) bool {
	for _, f := range mapping {
		if f == field {
			return true
		}
	}
	return false
}

func requireCSV(filename string) error {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return pkgerrors.New(pkgerrors.CodeValidation, "file must be a CSV")
	}
	return nil
}
