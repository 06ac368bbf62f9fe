package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/api/responses"
	"github.com/platewise/platewise-backend/internal/colmap"
	"github.com/platewise/platewise-backend/internal/ingest"
	"github.com/platewise/platewise-backend/internal/restaurants"
	"github.com/platewise/platewise-backend/internal/uploads"
	"github.com/platewise/platewise-backend/pkg/config"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
)

// UploadCSV ingests a multipart CSV upload for a restaurant. Form fields:
// file, restaurant_id, columns_mapping (JSON object), use_ai_mapping.
func UploadCSV(ingestSvc ingest.Service, restaurantSvc restaurants.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ingestSvc == nil || restaurantSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		maxBytes := int64(cfg.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := formFile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		restaurantID, err := uuid.Parse(strings.TrimSpace(r.FormValue("restaurant_id")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		// Ownership of the data set is established before touching the file.
		if _, err := restaurantSvc.Get(r.Context(), restaurantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mapping, err := parseColumnsMapping(r.FormValue("columns_mapping"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		useAI := false
		if raw := strings.TrimSpace(r.FormValue("use_ai_mapping")); raw != "" {
			useAI, err = strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "use_ai_mapping must be a boolean"))
				return
			}
		}

		record, err := ingestSvc.Ingest(r.Context(), ingest.IngestInput{
			RestaurantID: restaurantID,
			Filename:     header.Filename,
			File:         file,
			Mapping:      mapping,
			UseAIMapping: useAI,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// PreviewColumns returns the CSV header row and the suggested column mapping
// without persisting anything.
func PreviewColumns(ingestSvc ingest.Service, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ingestSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload service unavailable"))
			return
		}

		maxBytes := int64(cfg.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := formFile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		preview, err := ingestSvc.PreviewColumns(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

// UploadList returns the upload audit trail for a restaurant, newest first.
func UploadList(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "uploads service unavailable"))
			return
		}

		id, err := restaurantIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv file is required")
	}
	return file, header, nil
}

func parseColumnsMapping(raw string) (map[string]colmap.Field, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return nil, nil
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid columns mapping format")
	}

	mapping := make(map[string]colmap.Field, len(parsed))
	for col, field := range parsed {
		if !colmap.IsValidField(field) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown mapping target field").
				WithDetails(map[string]any{"column": col, "field": field})
		}
		mapping[col] = colmap.Field(field)
	}
	return mapping, nil
}
