package ingest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// purchaseTypeSynonyms fold the channel spellings POS systems emit into the
// three canonical values. Anything else gets title-cased as-is.
var purchaseTypeSynonyms = map[string]string{
	"drive-thru": "Drive-thru",
	"drive thru": "Drive-thru",
	"drivethru":  "Drive-thru",
	"online":     "Online",
	"in-store":   "In-store",
	"in store":   "In-store",
	"instore":    "In-store",
	"store":      "In-store",
}

// NormalizePurchaseType folds a raw channel value into its canonical form.
// Empty input becomes "Unknown".
func NormalizePurchaseType(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown"
	}
	if canonical, ok := purchaseTypeSynonyms[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// NormalizeName trims and title-cases a free-text name (manager, city).
// Empty input becomes "Unknown".
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ToLower(trimmed))
}
