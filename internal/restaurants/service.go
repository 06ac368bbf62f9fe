package restaurants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/platewise/platewise-backend/pkg/db/models"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
)

// Service defines CRUD operations over restaurants.
type Service interface {
	Create(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, offset, limit int) ([]models.Restaurant, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRestaurantInput) (*models.Restaurant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateRestaurantInput captures the fields needed to register a restaurant.
type CreateRestaurantInput struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	ContactEmail string   `json:"contact_email" validate:"omitempty,email"`
	City         string   `json:"city" validate:"omitempty,max=120"`
	Cuisines     []string `json:"cuisines" validate:"omitempty,dive,min=1"`
}

// UpdateRestaurantInput carries optional field updates; nil means unchanged.
type UpdateRestaurantInput struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=200"`
	ContactEmail *string   `json:"contact_email" validate:"omitempty,email"`
	City         *string   `json:"city" validate:"omitempty,max=120"`
	Cuisines     *[]string `json:"cuisines" validate:"omitempty,dive,min=1"`
}

// NewService wires a restaurants service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateRestaurantInput) (*models.Restaurant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}

	restaurant := &models.Restaurant{
		Name:     name,
		Cuisines: pq.StringArray(input.Cuisines),
	}
	if email := strings.TrimSpace(input.ContactEmail); email != "" {
		restaurant.ContactEmail = &email
	}
	if city := strings.TrimSpace(input.City); city != "" {
		restaurant.City = &city
	}

	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, err
	}
	return restaurant, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]models.Restaurant, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRestaurantInput) (*models.Restaurant, error) {
	restaurant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name cannot be empty")
		}
		restaurant.Name = name
	}
	if input.ContactEmail != nil {
		email := strings.TrimSpace(*input.ContactEmail)
		if email == "" {
			restaurant.ContactEmail = nil
		} else {
			restaurant.ContactEmail = &email
		}
	}
	if input.City != nil {
		city := strings.TrimSpace(*input.City)
		if city == "" {
			restaurant.City = nil
		} else {
			restaurant.City = &city
		}
	}
	if input.Cuisines != nil {
		restaurant.Cuisines = pq.StringArray(*input.Cuisines)
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
