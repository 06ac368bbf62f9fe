package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/internal/transactions"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
	"github.com/platewise/platewise-backend/pkg/logger"
)

// Enricher layers anomalies and narrative insights on top of a report. It
// never fails: implementations fall back to derived text when the model is
// unavailable.
type Enricher interface {
	DetectAnomalies(ctx context.Context, report *Report) []Anomaly
	GenerateInsights(ctx context.Context, report *Report) []string
}

// Service renders analytics reports.
type Service interface {
	Report(ctx context.Context, restaurantID uuid.UUID, start, end *time.Time) (*Report, error)
}

type service struct {
	txRepo   transactions.Repository
	cache    *Cache
	enricher Enricher
	logg     *logger.Logger
}

// NewService wires the analytics service. cache and enricher may be nil.
func NewService(txRepo transactions.Repository, cache *Cache, enricher Enricher, logg *logger.Logger) (Service, error) {
	if txRepo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		txRepo:   txRepo,
		cache:    cache,
		enricher: enricher,
		logg:     logg,
	}, nil
}

func (s *service) Report(ctx context.Context, restaurantID uuid.UUID, start, end *time.Time) (*Report, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	ctx = s.logg.WithRestaurantID(ctx, restaurantID.String())
	scope := ScopeKey(start, end)

	if cached := s.cache.Get(ctx, restaurantID, scope); cached != nil {
		s.logg.Debug(ctx, "analytics report served from cache")
		return cached, nil
	}

	rows, err := s.txRepo.Query(ctx, restaurantID, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading transactions")
	}

	report := Summarize(rows)

	// Enrichment only runs over real data; the empty report already carries
	// its sentinel insight.
	if len(rows) > 0 && s.enricher != nil {
		report.Anomalies = s.enricher.DetectAnomalies(ctx, report)
		report.Insights = s.enricher.GenerateInsights(ctx, report)
	}

	s.cache.Set(ctx, restaurantID, scope, report)
	return report, nil
}
