package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVSplitsHeaderAndRows(t *testing.T) {
	input := "Date,Item,Price\n2026-03-01,Burger,5.00\n2026-03-02,Fries,2.50\n"

	header, rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Item", "Price"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2026-03-02", "Fries", "2.50"}, rows[1])
}

func TestReadCSVStripsBOM(t *testing.T) {
	input := "\ufeffDate,Item\n2026-03-01,Burger\n"

	header, _, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Date", header[0])
}

func TestReadCSVLatin1Fallback(t *testing.T) {
	// "Crème" in Latin-1 bytes, which is invalid UTF-8.
	input := append([]byte("Date,Item\n2026-03-01,"), 0x43, 0x72, 0xE8, 0x6D, 0x65, '\n')

	header, rows, err := ReadCSV(strings.NewReader(string(input)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Item"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "Crème", rows[0][1])
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadCSVRaggedRowsTolerated(t *testing.T) {
	input := "Date,Item,Price\n2026-03-01,Burger\n"

	_, rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 2)
}

func TestReadHeader(t *testing.T) {
	header, err := ReadHeader(strings.NewReader("A,B,C\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, header)
}
