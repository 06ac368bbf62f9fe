package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/api/responses"
	"github.com/platewise/platewise-backend/api/validators"
	"github.com/platewise/platewise-backend/internal/restaurants"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
)

type restaurantCreateRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	ContactEmail string   `json:"contact_email" validate:"omitempty,email"`
	City         string   `json:"city" validate:"omitempty,max=120"`
	Cuisines     []string `json:"cuisines" validate:"omitempty,dive,min=1"`
}

func (r restaurantCreateRequest) toInput() restaurants.CreateRestaurantInput {
	return restaurants.CreateRestaurantInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		City:         r.City,
		Cuisines:     r.Cuisines,
	}
}

func RestaurantCreate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		var payload restaurantCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, restaurant)
	}
}

func RestaurantGet(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

func RestaurantList(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), offset, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type restaurantUpdateRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ContactEmail *string   `json:"contact_email,omitempty" validate:"omitempty,email"`
	City         *string   `json:"city,omitempty" validate:"omitempty,max=120"`
	Cuisines     *[]string `json:"cuisines,omitempty" validate:"omitempty,dive,min=1"`
}

func (r restaurantUpdateRequest) toInput() restaurants.UpdateRestaurantInput {
	return restaurants.UpdateRestaurantInput{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		City:         r.City,
		Cuisines:     r.Cuisines,
	}
}

func RestaurantUpdate(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload restaurantUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}

func RestaurantDelete(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

func restaurantIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "restaurantId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
	}
	return id, nil
}
