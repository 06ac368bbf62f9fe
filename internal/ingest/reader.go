package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadCSV consumes the whole file and splits the header from the data rows.
// Input is expected to be UTF-8; files that fail validation get a Latin-1
// pass, which legacy POS exports still produce.
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}

	if !utf8.Valid(raw) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if decErr != nil {
			return nil, nil, fmt.Errorf("decoding latin-1 csv: %w", decErr)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv file is empty")
	}

	header = trimBOM(records[0])
	return header, records[1:], nil
}

// ReadHeader returns just the column names of a CSV stream.
func ReadHeader(r io.Reader) ([]string, error) {
	header, _, err := ReadCSV(r)
	return header, err
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
