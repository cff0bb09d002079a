// Package sheets is the data-fetch collaborator: a thin client over the
// Google Sheets API that delivers raw grids to the dashboard service. All
// transport failures stop here; the core pipeline only ever sees a
// well-formed grid.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"growthpulse/internal/config"
	"growthpulse/pkg/contracts/domain"
)

// Client fetches one configured range from one spreadsheet.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
	readRange     string
	logger        *slog.Logger
}

// NewClient creates a Sheets client from configuration. Service-account
// credentials take precedence over an API key when both are configured.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.HasSource() {
		return nil, fmt.Errorf("sheets source not configured: spreadsheet ID and a credential are required")
	}

	var opt option.ClientOption
	if cfg.CredentialsFile != "" {
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	} else {
		opt = option.WithAPIKey(cfg.APIKey)
	}

	service, err := sheetsapi.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.Info("sheets client initialized",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("read_range", cfg.ReadRange),
		slog.Bool("service_account", cfg.CredentialsFile != ""))

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.ReadRange,
		logger:        logger.With(slog.String("component", "sheets_client")),
	}, nil
}

// FetchGrid retrieves the configured range and converts it into a RawGrid.
// An empty sheet is a valid result, not an error.
func (c *Client) FetchGrid(ctx context.Context) (domain.RawGrid, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "sheets fetch failed",
			slog.String("spreadsheet_id", c.spreadsheetID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetch range %s: %w", c.readRange, err)
	}

	grid := domain.GridFromValues(resp.Values)

	c.logger.DebugContext(ctx, "grid fetched",
		slog.Int("row_count", len(grid)))

	return grid, nil
}
