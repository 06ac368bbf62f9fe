package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/pkg/db/models"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
)

// Service tracks the lifecycle of CSV uploads. Every ingestion run gets an
// audit row up front, then a Complete or Fail once the outcome is known.
type Service interface {
	Begin(ctx context.Context, restaurantID uuid.UUID, filename string, storedPath string, size int64) (*models.UploadRecord, error)
	Complete(ctx context.Context, id uuid.UUID, processed, dropped int) (*models.UploadRecord, error)
	Fail(ctx context.Context, id uuid.UUID, reason string, processed int) (*models.UploadRecord, error)
	List(ctx context.Context, restaurantID uuid.UUID) ([]models.UploadRecord, error)
}

type service struct {
	repo Repository
}

// NewService wires an uploads service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("uploads repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Begin(ctx context.Context, restaurantID uuid.UUID, filename string, storedPath string, size int64) (*models.UploadRecord, error) {
	if restaurantID == uuid.Nil {
		return nil, fmt.Errorf("restaurant id is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	record := &models.UploadRecord{
		RestaurantID: restaurantID,
		Filename:     filename,
		FileSize:     size,
	}
	if storedPath != "" {
		record.StoredPath = &storedPath
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID, processed, dropped int) (*models.UploadRecord, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Processed = true
	record.RecordsProcessed = processed
	record.RecordsDropped = dropped
	record.ErrorMessage = nil
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Fail marks the upload as unprocessed while keeping the count of rows that
// made it in before the failure.
func (s *service) Fail(ctx context.Context, id uuid.UUID, reason string, processed int) (*models.UploadRecord, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Processed = false
	record.RecordsProcessed = processed
	record.ErrorMessage = &reason
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) List(ctx context.Context, restaurantID uuid.UUID) ([]models.UploadRecord, error) {
	if restaurantID == uuid.Nil {
		return nil, fmt.Errorf("restaurant id is required")
	}
	return s.repo.ListByRestaurant(ctx, restaurantID)
}

func (s *service) get(ctx context.Context, id uuid.UUID) (*models.UploadRecord, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("upload id is required")
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upload not found")
		}
		return nil, err
	}
	return record, nil
}
