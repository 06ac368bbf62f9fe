package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/platewise/platewise-backend/internal/colmap"
)

// dateLayouts are tried whole-column first: the first layout every non-empty
// cell satisfies wins for the entire file. Only when no single layout fits
// does parsing fall back to per-cell matching.
var dateLayouts = []string{
	"01/02/2006",
	"02/01/2006",
	"2006-01-02",
	"01-02-2006",
	"02-01-2006",
	"01/02/06",
	"02/01/06",
}

// dateTimeLayouts extend the per-cell fallback. POS exports often stamp the
// date column with a wall-clock time appended; those rows still carry a
// usable date.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04",
	"02/01/2006 15:04",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04:05 PM",
}

// Row is the normalized form of one CSV line, ready to persist.
type Row struct {
	TransactionID *string
	Date          time.Time
	TimeOfDay     *string
	ItemName      string
	Category      *string
	Quantity      int
	Price         decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod *string
	PurchaseType  *string
	Manager       string
	City          string
	CustomerID    *string
	StaffID       *string
	Notes         *string
}

// Result carries the admitted rows plus how many lines were dropped.
type Result struct {
	Rows    []Row
	Dropped int
}

// Parse normalizes raw CSV records using the column mapping. Rows are
// dropped, not failed, when the date cannot be parsed or when both price and
// total are missing. Input order is preserved.
func Parse(header []string, records [][]string, mapping map[string]colmap.Field) Result {
	idx := fieldIndexes(header, mapping)

	dateLayout := adoptLayout(records, idx, colmap.FieldDate, dateLayouts, parseDateCell)
	timeLayout := adoptLayout(records, idx, colmap.FieldTime, timeLayouts, parseTimeCell)

	result := Result{Rows: make([]Row, 0, len(records))}

	for _, record := range records {
		dateRaw := cell(record, idx, colmap.FieldDate)
		date, ok := parseDate(dateRaw, dateLayout)
		if !ok {
			result.Dropped++
			continue
		}

		quantity := parseQuantity(cell(record, idx, colmap.FieldQuantity))

		price, hasPrice := parseMoney(cell(record, idx, colmap.FieldPrice))
		total, hasTotal := parseMoney(cell(record, idx, colmap.FieldTotalAmount))

		switch {
		case !hasTotal && hasPrice:
			total = price.Mul(decimal.NewFromInt(int64(quantity)))
		case !hasPrice && hasTotal:
			price = total
		case !hasPrice && !hasTotal:
			result.Dropped++
			continue
		}

		row := Row{
			Date:          date,
			TimeOfDay:     parseTime(cell(record, idx, colmap.FieldTime), timeLayout),
			ItemName:      defaultString(cell(record, idx, colmap.FieldItemName), "Unknown Item"),
			Quantity:      quantity,
			Price:         price,
			TotalAmount:   total,
			Manager:       NormalizeName(cell(record, idx, colmap.FieldManager)),
			City:          NormalizeName(cell(record, idx, colmap.FieldCity)),
			TransactionID: optionalString(cell(record, idx, colmap.FieldTransactionID)),
			Category:      optionalString(cell(record, idx, colmap.FieldCategory)),
			PaymentMethod: optionalString(cell(record, idx, colmap.FieldPaymentMethod)),
			CustomerID:    optionalString(cell(record, idx, colmap.FieldCustomerID)),
			StaffID:       optionalString(cell(record, idx, colmap.FieldStaffID)),
			Notes:         optionalString(cell(record, idx, colmap.FieldNotes)),
		}

		if hasIndex(idx, colmap.FieldPurchaseType) {
			pt := NormalizePurchaseType(cell(record, idx, colmap.FieldPurchaseType))
			row.PurchaseType = &pt
		}

		result.Rows = append(result.Rows, row)
	}

	return result
}

// fieldIndexes resolves the column mapping to positional indexes. The first
// header occurrence wins when a file repeats a column name.
func fieldIndexes(header []string, mapping map[string]colmap.Field) map[colmap.Field]int {
	idx := make(map[colmap.Field]int)
	for i, col := range header {
		field, ok := mapping[col]
		if !ok {
			continue
		}
		if _, taken := idx[field]; taken {
			continue
		}
		idx[field] = i
	}
	return idx
}

func hasIndex(idx map[colmap.Field]int, field colmap.Field) bool {
	_, ok := idx[field]
	return ok
}

func cell(record []string, idx map[colmap.Field]int, field colmap.Field) string {
	i, ok := idx[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// adoptLayout returns the first layout that parses every non-empty cell in
// the column, or "" when no single layout fits.
func adoptLayout(records [][]string, idx map[colmap.Field]int, field colmap.Field, layouts []string, parseFn func(string, string) bool) string {
	colIdx, ok := idx[field]
	if !ok {
		return ""
	}

	cells := make([]string, 0, len(records))
	for _, record := range records {
		if colIdx >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[colIdx]); v != "" {
			cells = append(cells, v)
		}
	}
	if len(cells) == 0 {
		return ""
	}

	for _, layout := range layouts {
		all := true
		for _, v := range cells {
			if !parseFn(v, layout) {
				all = false
				break
			}
		}
		if all {
			return layout
		}
	}
	return ""
}

func parseDateCell(value, layout string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}

func parseTimeCell(value, layout string) bool {
	_, err := time.Parse(layout, normalizeTimeCell(value, layout))
	return err == nil
}

func parseDate(raw, adopted string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if adopted != "" {
		t, err := time.Parse(adopted, raw)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTime(raw, adopted string) *string {
	if raw == "" {
		return nil
	}
	layouts := timeLayouts
	if adopted != "" {
		layouts = []string{adopted}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalizeTimeCell(raw, layout)); err == nil {
			s := t.Format("15:04:05")
			return &s
		}
	}
	return nil
}

// normalizeTimeCell uppercases am/pm markers so the 12-hour layouts match.
func normalizeTimeCell(value, layout string) string {
	if strings.Contains(layout, "PM") {
		return strings.ToUpper(value)
	}
	return value
}

func parseMoney(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseQuantity coerces the cell to an integer, defaulting to 1 when the
// value is missing or not numeric.
func parseQuantity(raw string) int {
	if raw == "" {
		return 1
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 1
	}
	return int(f)
}

func defaultString(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return raw
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
