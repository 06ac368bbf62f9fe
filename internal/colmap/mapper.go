package colmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/platewise/platewise-backend/pkg/logger"
)

// TextGenerator is the model surface the mapper needs. pkg/gemini satisfies
// it; tests plug in fakes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service maps raw CSV headers onto the canonical sales schema.
type Service interface {
	// MapColumns resolves a header list to a column->field mapping. It never
	// fails: when the model is unavailable or returns garbage, the
	// deterministic fallback matcher takes over.
	MapColumns(ctx context.Context, columns []string) map[string]Field
}

type service struct {
	gen  TextGenerator
	logg *logger.Logger
}

// NewService builds the column mapping service. gen may be nil, in which
// case only the fallback matcher runs.
func NewService(gen TextGenerator, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{gen: gen, logg: logg}, nil
}

func (s *service) MapColumns(ctx context.Context, columns []string) map[string]Field {
	if len(columns) == 0 {
		return map[string]Field{}
	}

	if s.gen == nil {
		return FallbackMapping(columns)
	}

	mapping, err := s.mapWithModel(ctx, columns)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "model column mapping failed, using fallback")
		return FallbackMapping(columns)
	}
	return mapping
}

func (s *service) mapWithModel(ctx context.Context, columns []string) (map[string]Field, error) {
	prompt, err := buildMappingPrompt(columns)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating mapping: %w", err)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parsing mapping response: %w", err)
	}

	// Drop anything outside the schema, and anything the model mapped to a
	// header we never sent.
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
	}

	mapping := make(map[string]Field)
	claimed := make(map[Field]bool)
	for _, col := range columns {
		target, ok := parsed[col]
		if !ok || !known[col] || !IsValidField(target) {
			continue
		}
		field := Field(target)
		if claimed[field] {
			continue
		}
		mapping[col] = field
		claimed[field] = true
	}

	if len(mapping) == 0 {
		return nil, fmt.Errorf("model returned no usable mappings")
	}
	return mapping, nil
}

func buildMappingPrompt(columns []string) (string, error) {
	cols, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("encoding columns: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a data analyst mapping CSV column names to a restaurant sales database schema.\n\n")
	b.WriteString("CSV Columns: ")
	b.Write(cols)
	b.WriteString("\n\nTarget Schema Fields:\n")
	for _, fd := range fieldDescriptions {
		fmt.Fprintf(&b, "- %s: %s\n", fd.field, fd.desc)
	}
	b.WriteString("\nMap each CSV column to the most appropriate target field.\n")
	b.WriteString("If a column does not match any target field, omit it from the response.\n\n")
	b.WriteString("Return ONLY a valid JSON object mapping CSV column names to target field names.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Format: {\"CSV Column Name\": \"target_field_name\", ...}\n\n")
	b.WriteString("Examples of common mappings:\n")
	b.WriteString("- \"Order Type\" or \"Channel\" -> \"purchase_type\"\n")
	b.WriteString("- \"Manager Name\" or \"Shift Manager\" -> \"manager\"\n")
	b.WriteString("- \"City\" or \"Location\" or \"Branch\" -> \"city\"\n")
	b.WriteString("- \"Payment Type\" or \"Payment Mode\" -> \"payment_method\"\n")
	return b.String(), nil
}

// cleanModelJSON strips Markdown fences and leading/trailing prose a model
// sometimes wraps around its JSON payload.
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
