package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"growthpulse/internal/config"
	"growthpulse/internal/exporter"
	"growthpulse/internal/infrastructure"
	"growthpulse/internal/services"
	"growthpulse/internal/sheets"
)

// snapshot fetches the spreadsheet once, normalizes it, and writes the
// result to a file. It is the batch counterpart of the web server's poller.
func main() {
	spreadsheetID := flag.String("spreadsheet", "", "spreadsheet ID (defaults to GROWTHPULSE_SHEETS_SPREADSHEET_ID)")
	readRange := flag.String("range", "", "read range, e.g. Sheet1!A1:I (defaults to configured range)")
	out := flag.String("out", "", "output file path (defaults to growthpulse-<date>.<format>)")
	format := flag.String("format", "csv", "output format: csv or xlsx")
	timeout := flag.Duration("timeout", 60*time.Second, "fetch timeout")
	flag.Parse()

	if *format != "csv" && *format != "xlsx" {
		slog.Error("Unsupported format", slog.String("format", *format))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *spreadsheetID != "" {
		cfg.Sheets.SpreadsheetID = *spreadsheetID
	}
	if *readRange != "" {
		cfg.Sheets.ReadRange = *readRange
	}
	if !cfg.Sheets.HasSource() {
		slog.Error("No spreadsheet source configured",
			slog.String("hint", "set -spreadsheet plus GROWTHPULSE_SHEETS_API_KEY or GROWTHPULSE_SHEETS_CREDENTIALS_FILE"))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := sheets.NewClient(ctx, cfg.Sheets, logger)
	if err != nil {
		logger.Error("Failed to initialize sheets client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	service := services.NewDashboardService(client, nil, nil, logger)
	snap, err := service.Refresh(ctx)
	if err != nil {
		logger.Error("Snapshot refresh failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = fmt.Sprintf("growthpulse-%s.%s", snap.FetchedAt.Format("2006-01-02"), *format)
	}

	f, err := os.Create(outPath)
	if err != nil {
		logger.Error("Failed to create output file",
			slog.String("path", outPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	exp := exporter.New(logger)
	switch *format {
	case "csv":
		err = exp.WriteCSV(f, snap)
	case "xlsx":
		err = exp.WriteExcel(f, snap)
	}
	if err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Snapshot written",
		slog.String("path", outPath),
		slog.Int("record_count", len(snap.Records)),
		slog.Int("sector_count", len(snap.Summary.SectorCounts)),
		slog.Float64("avg_revenue_growth_pct", snap.Summary.AvgRevenueGrowthPct))
}
