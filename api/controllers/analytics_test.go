package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/internal/analytics"
)

type stubAnalyticsService struct {
	report    *analytics.Report
	err       error
	lastID    uuid.UUID
	lastStart *time.Time
	lastEnd   *time.Time
}

func (s *stubAnalyticsService) Report(_ context.Context, restaurantID uuid.UUID, start, end *time.Time) (*analytics.Report, error) {
	s.lastID = restaurantID
	s.lastStart = start
	s.lastEnd = end
	return s.report, s.err
}

func TestRestaurantAnalyticsSuccess(t *testing.T) {
	id := uuid.New()
	report := analytics.EmptyReport()
	report.Summary.TotalRevenue = 150.5
	svc := &stubAnalyticsService{report: report}
	handler := RestaurantAnalytics(svc, nil)

	url := "/api/v1/restaurants/" + id.String() + "/analytics?start_date=2026-03-01&end_date=2026-03-31"
	req := withRestaurantParam(httptest.NewRequest(http.MethodGet, url, nil), id.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastID != id {
		t.Fatalf("expected id %s forwarded got %s", id, svc.lastID)
	}
	if svc.lastStart == nil || svc.lastStart.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("expected start date forwarded, got %v", svc.lastStart)
	}
	if svc.lastEnd == nil || svc.lastEnd.Format("2006-01-02") != "2026-03-31" {
		t.Fatalf("expected end date forwarded, got %v", svc.lastEnd)
	}

	var envelope struct {
		Data analytics.Report `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Summary.TotalRevenue != 150.5 {
		t.Fatalf("expected revenue 150.5 got %f", envelope.Data.Summary.TotalRevenue)
	}
}

func TestRestaurantAnalyticsOmittedDatesAreNil(t *testing.T) {
	id := uuid.New()
	svc := &stubAnalyticsService{report: analytics.EmptyReport()}
	handler := RestaurantAnalytics(svc, nil)

	req := withRestaurantParam(httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+id.String()+"/analytics", nil), id.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastStart != nil || svc.lastEnd != nil {
		t.Fatalf("expected nil bounds, got start=%v end=%v", svc.lastStart, svc.lastEnd)
	}
}

func TestRestaurantAnalyticsRejectsBadDate(t *testing.T) {
	id := uuid.New()
	handler := RestaurantAnalytics(&stubAnalyticsService{}, nil)

	req := withRestaurantParam(
		httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+id.String()+"/analytics?start_date=03-01-2026", nil),
		id.String(),
	)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
