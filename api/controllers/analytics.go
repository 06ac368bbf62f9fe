package controllers

import (
	"net/http"

	"github.com/platewise/platewise-backend/api/responses"
	"github.com/platewise/platewise-backend/api/validators"
	"github.com/platewise/platewise-backend/internal/analytics"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
)

// RestaurantAnalytics renders the full analytics report for a restaurant.
// Optional start_date/end_date query parameters (YYYY-MM-DD) bound the data.
func RestaurantAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Report(r.Context(), id, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
