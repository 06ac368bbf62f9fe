package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/internal/restaurants"
	"github.com/platewise/platewise-backend/pkg/db/models"
	pkgerrors "github.com/platewise/platewise-backend/pkg/errors"
)

type stubRestaurantService struct {
	created    *models.Restaurant
	createErr  error
	got        *models.Restaurant
	getErr     error
	list       []models.Restaurant
	listErr    error
	updated    *models.Restaurant
	updateErr  error
	deleteErr  error
	lastInput  restaurants.CreateRestaurantInput
	lastGetID  uuid.UUID
	lastOffset int
	lastLimit  int
}

func (s *stubRestaurantService) Create(_ context.Context, input restaurants.CreateRestaurantInput) (*models.Restaurant, error) {
	s.lastInput = input
	return s.created, s.createErr
}

func (s *stubRestaurantService) Get(_ context.Context, id uuid.UUID) (*models.Restaurant, error) {
	s.lastGetID = id
	return s.got, s.getErr
}

func (s *stubRestaurantService) List(_ context.Context, offset, limit int) ([]models.Restaurant, error) {
	s.lastOffset = offset
	s.lastLimit = limit
	return s.list, s.listErr
}

func (s *stubRestaurantService) Update(_ context.Context, _ uuid.UUID, _ restaurants.UpdateRestaurantInput) (*models.Restaurant, error) {
	return s.updated, s.updateErr
}

func (s *stubRestaurantService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func withRestaurantParam(req *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("restaurantId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRestaurantCreateSuccess(t *testing.T) {
	restaurant := &models.Restaurant{ID: uuid.New(), Name: "Casa Verde"}
	svc := &stubRestaurantService{created: restaurant}
	handler := RestaurantCreate(svc, nil)

	payload := []byte(`{"name": "Casa Verde", "city": "Austin", "cuisines": ["mexican"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.lastInput.Name != "Casa Verde" || svc.lastInput.City != "Austin" {
		t.Fatalf("unexpected input forwarded: %+v", svc.lastInput)
	}

	var envelope struct {
		Data models.Restaurant `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != restaurant.ID {
		t.Fatalf("expected id %s got %s", restaurant.ID, envelope.Data.ID)
	}
}

func TestRestaurantCreateMissingName(t *testing.T) {
	handler := RestaurantCreate(&stubRestaurantService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", bytes.NewReader([]byte(`{"city": "Austin"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRestaurantCreateRejectsUnknownFields(t *testing.T) {
	handler := RestaurantCreate(&stubRestaurantService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", bytes.NewReader([]byte(`{"name": "x", "bogus": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRestaurantGetSuccess(t *testing.T) {
	id := uuid.New()
	svc := &stubRestaurantService{got: &models.Restaurant{ID: id, Name: "Casa Verde"}}
	handler := RestaurantGet(svc, nil)

	req := withRestaurantParam(httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+id.String(), nil), id.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastGetID != id {
		t.Fatalf("expected id %s forwarded, got %s", id, svc.lastGetID)
	}
}

func TestRestaurantGetInvalidID(t *testing.T) {
	handler := RestaurantGet(&stubRestaurantService{}, nil)

	req := withRestaurantParam(httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/nope", nil), "nope")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRestaurantGetNotFound(t *testing.T) {
	svc := &stubRestaurantService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")}
	handler := RestaurantGet(svc, nil)

	id := uuid.New().String()
	req := withRestaurantParam(httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+id, nil), id)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestRestaurantListForwardsPagination(t *testing.T) {
	svc := &stubRestaurantService{list: []models.Restaurant{{ID: uuid.New(), Name: "A"}}}
	handler := RestaurantList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants?offset=10&limit=20", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastOffset != 10 || svc.lastLimit != 20 {
		t.Fatalf("expected offset=10 limit=20, got offset=%d limit=%d", svc.lastOffset, svc.lastLimit)
	}
}

func TestRestaurantListRejectsBadLimit(t *testing.T) {
	handler := RestaurantList(&stubRestaurantService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants?limit=oops", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRestaurantDeleteSuccess(t *testing.T) {
	handler := RestaurantDelete(&stubRestaurantService{}, nil)

	id := uuid.New().String()
	req := withRestaurantParam(httptest.NewRequest(http.MethodDelete, "/api/v1/restaurants/"+id, nil), id)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
