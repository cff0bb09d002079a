// Package exporter renders dashboard snapshots as downloadable files. The
// table view's contract applies here too: exports carry the raw cell
// strings, not the coerced values, so what the user downloads matches what
// the sheet actually said.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"growthpulse/pkg/contracts/domain"
)

// Exporter writes snapshots in the supported download formats.
type Exporter struct {
	logger *slog.Logger
}

// New creates an exporter with the given logger.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger.With(slog.String("component", "exporter"))}
}

// rows flattens a snapshot into header-ordered string rows.
func rows(snap *domain.Snapshot) [][]string {
	out := make([][]string, 0, len(snap.Records))
	for _, rec := range snap.Records {
		row := make([]string, 0, len(snap.Headers))
		for _, field := range snap.Headers {
			row = append(row, rec[field].Text())
		}
		out = append(out, row)
	}
	return out
}

// WriteCSV writes the snapshot's records as CSV. A UTF-8 BOM is prepended so
// Excel opens the download with the right encoding.
func (e *Exporter) WriteCSV(w io.Writer, snap *domain.Snapshot) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	if len(snap.Headers) > 0 {
		if err := writer.Write(snap.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, row := range rows(snap) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv flush failed: %w", err)
	}

	e.logger.Info("snapshot exported as csv",
		slog.String("snapshot_id", snap.ID),
		slog.Int("record_count", len(snap.Records)))

	return nil
}

// WriteExcel writes the snapshot's records as a single-sheet workbook.
func (e *Exporter) WriteExcel(w io.Writer, snap *domain.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Companies"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, header := range snap.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for rowIdx, row := range rows(snap) {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("snapshot exported as xlsx",
		slog.String("snapshot_id", snap.ID),
		slog.Int("record_count", len(snap.Records)))

	return nil
}
