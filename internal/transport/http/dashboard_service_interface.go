package http

import (
	"context"

	"growthpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the contract for dashboard operations.
// The handler depends on this rather than the concrete service so tests can
// substitute a mock.
type DashboardServiceInterface interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	Snapshot() (*domain.Snapshot, bool)
	Summary(ctx context.Context) (domain.SummaryStats, error)
	Companies(ctx context.Context) ([]string, []domain.Record, error)
	ChartSeries(ctx context.Context) ([]domain.ChartPoint, error)
	TopMarginExpansion(ctx context.Context, n int) ([]domain.NormalizedEntry, error)
}
