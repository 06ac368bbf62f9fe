package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/platewise/platewise-backend/internal/analytics"
	"github.com/platewise/platewise-backend/pkg/logger"
)

// Severity levels attached to detected anomalies.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// TextGenerator is the model surface the enricher needs. pkg/gemini satisfies
// it; tests plug in fakes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Enricher turns an aggregated report into anomalies and narrative insights.
// It satisfies analytics.Enricher and never fails: when the model errors or
// returns garbage, deterministic fallbacks take over.
type Enricher struct {
	gen  TextGenerator
	logg *logger.Logger
}

// NewEnricher builds the report enricher. gen may be nil, in which case only
// the derived fallbacks run.
func NewEnricher(gen TextGenerator, logg *logger.Logger) (*Enricher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Enricher{gen: gen, logg: logg}, nil
}

func (e *Enricher) DetectAnomalies(ctx context.Context, report *analytics.Report) []analytics.Anomaly {
	if e.gen == nil {
		return []analytics.Anomaly{}
	}

	raw, err := e.gen.Generate(ctx, buildAnomalyPrompt(report))
	if err != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "anomaly detection failed")
		return []analytics.Anomaly{errorAnomaly(err)}
	}

	var anomalies []analytics.Anomaly
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &anomalies); err != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "anomaly response unparseable")
		return []analytics.Anomaly{errorAnomaly(err)}
	}

	for i := range anomalies {
		if anomalies[i].Severity == "" {
			anomalies[i].Severity = severityFromImpact(anomalies[i].Impact)
		}
	}
	return anomalies
}

func (e *Enricher) GenerateInsights(ctx context.Context, report *analytics.Report) []string {
	if e.gen == nil {
		return fallbackInsights(report)
	}

	raw, err := e.gen.Generate(ctx, buildInsightsPrompt(report))
	if err != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "insight generation failed, using derived insights")
		return fallbackInsights(report)
	}

	var insights []string
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &insights); err != nil || len(insights) == 0 {
		e.logg.Warn(ctx, "insight response unparseable, using derived insights")
		return fallbackInsights(report)
	}
	return insights
}

func errorAnomaly(err error) analytics.Anomaly {
	return analytics.Anomaly{
		Description: fmt.Sprintf("AI Analysis Error: %v", err),
		Impact:      "Unknown",
		Explanation: "Failed to parse AI response. Manual review recommended.",
		Severity:    SeverityWarning,
	}
}

func severityFromImpact(impact string) string {
	lower := strings.ToLower(impact)
	switch {
	case strings.Contains(lower, "high") || strings.Contains(lower, "significant"):
		return SeverityCritical
	case strings.Contains(lower, "medium") || strings.Contains(lower, "moderate"):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// cleanModelJSON strips Markdown fences and surrounding prose from a model
// response, leaving the outermost JSON value.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end > start {
		return s[start : end+1]
	}
	return s
}
