package colmap

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/platewise/platewise-backend/pkg/logger"
)

type fakeGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.generateFn(ctx, prompt)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "colmap-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func TestFallbackMappingPOSExport(t *testing.T) {
	columns := []string{"Trx_ID", "Sale_Date", "Item_Description", "Unit_Price", "Qty_Sold", "Payment_Type"}

	got := FallbackMapping(columns)
	want := map[string]Field{
		"Trx_ID":           FieldTransactionID,
		"Sale_Date":        FieldDate,
		"Item_Description": FieldItemName,
		"Unit_Price":       FieldPrice,
		"Qty_Sold":         FieldQuantity,
		"Payment_Type":     FieldPaymentMethod,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected mapping:\ngot  %v\nwant %v", got, want)
	}
}

func TestFallbackMappingIsIdempotent(t *testing.T) {
	columns := []string{"Order Date", "Order Type", "Manager Name", "Store_City", "Total Amount"}
	first := FallbackMapping(columns)
	second := FallbackMapping(columns)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("mapping not deterministic:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestFallbackMappingClaimsEachFieldOnce(t *testing.T) {
	columns := []string{"date", "order_date", "transaction_date"}
	got := FallbackMapping(columns)
	if len(got) != 1 {
		t.Fatalf("expected a single date mapping, got %v", got)
	}
	if got["date"] != FieldDate {
		t.Fatalf("expected exact header to win, got %v", got)
	}
}

func TestFallbackMappingSkipsUnknownColumns(t *testing.T) {
	got := FallbackMapping(columns("weather", "zz"))
	if len(got) != 0 {
		t.Fatalf("expected no mappings, got %v", got)
	}
}

func TestMapColumnsUsesModelResponse(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return "```json\n{\"Biz Date\": \"date\", \"Dish\": \"item_name\", \"Weather\": \"climate\"}\n```", nil
		},
	}
	svc, err := NewService(gen, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	got := svc.MapColumns(context.Background(), columns("Biz Date", "Dish", "Weather"))
	want := map[string]Field{
		"Biz Date": FieldDate,
		"Dish":     FieldItemName,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected mapping:\ngot  %v\nwant %v", got, want)
	}
}

func TestMapColumnsFallsBackOnModelError(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	svc, err := NewService(gen, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	got := svc.MapColumns(context.Background(), columns("Sale_Date", "Unit_Price"))
	want := map[string]Field{
		"Sale_Date":  FieldDate,
		"Unit_Price": FieldPrice,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback mapping, got %v", got)
	}
}

func TestMapColumnsFallsBackOnGarbageJSON(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, prompt string) (string, error) {
			return "sure, here is the mapping you asked for!", nil
		},
	}
	svc, err := NewService(gen, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	got := svc.MapColumns(context.Background(), columns("Sale_Date"))
	if got["Sale_Date"] != FieldDate {
		t.Fatalf("expected fallback mapping, got %v", got)
	}
}

func TestMapColumnsNilGeneratorUsesFallback(t *testing.T) {
	svc, err := NewService(nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	got := svc.MapColumns(context.Background(), columns("Manager Name"))
	if got["Manager Name"] != FieldManager {
		t.Fatalf("expected manager mapping, got %v", got)
	}
}

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":"b"}`, `{"a":"b"}`},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"prose wrapped", "Here you go:\n{\"a\":\"b\"}\nHope that helps!", `{"a":"b"}`},
		{"array", "```\n[1,2]\n```", `[1,2]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanModelJSON(tc.in); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func columns(cols ...string) []string {
	return cols
}
