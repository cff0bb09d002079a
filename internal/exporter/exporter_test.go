package exporter

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"growthpulse/pkg/contracts/domain"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		ID:      "snap-1",
		Headers: []string{"Company name", "Market cap"},
		Records: []domain.Record{
			{
				"Company name": domain.Cell{Kind: domain.CellString, Str: "Acme"},
				"Market cap":   domain.Cell{Kind: domain.CellString, Str: "1.2B"},
			},
			{
				"Company name": domain.Cell{Kind: domain.CellString, Str: "Globex"},
				"Market cap":   domain.Cell{Kind: domain.CellString, Str: "$500M"},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	e := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var buf bytes.Buffer
	require.NoError(t, e.WriteCSV(&buf, testSnapshot()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(string(raw[3:])))
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"Company name", "Market cap"}, records[0])
	assert.Equal(t, []string{"Acme", "1.2B"}, records[1])
	assert.Equal(t, []string{"Globex", "$500M"}, records[2])
}

func TestWriteExcel(t *testing.T) {
	e := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var buf bytes.Buffer
	require.NoError(t, e.WriteExcel(&buf, testSnapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Companies")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Company name", "Market cap"}, rows[0])
	assert.Equal(t, []string{"Acme", "1.2B"}, rows[1])
	// Export keeps the raw cell text, not the coerced magnitude.
	assert.Equal(t, []string{"Globex", "$500M"}, rows[2])
}

func TestWriteCSV_EmptySnapshot(t *testing.T) {
	e := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var buf bytes.Buffer
	require.NoError(t, e.WriteCSV(&buf, &domain.Snapshot{ID: "empty"}))

	// BOM only, no rows.
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, buf.Bytes())
}
