package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"growthpulse/internal/dataprocessing"
	apierrors "growthpulse/internal/errors"
	"growthpulse/internal/infrastructure"
	"growthpulse/pkg/contracts/domain"
)

// GridFetcher is the data-fetch collaborator the service polls. The sheets
// client satisfies it; tests substitute a stub.
type GridFetcher interface {
	FetchGrid(ctx context.Context) (domain.RawGrid, error)
}

// Broadcaster pushes refresh notifications to connected dashboard clients.
type Broadcaster interface {
	BroadcastDataUpdate(snapshotID string, recordCount int)
}

// DashboardService owns the current dashboard snapshot. Every refresh cycle
// builds a fresh immutable Snapshot and swaps it in wholesale; read methods
// always serve the last successful one, so a failed fetch degrades to stale
// data rather than an empty dashboard.
type DashboardService struct {
	fetcher     GridFetcher
	normalizer  *dataprocessing.Normalizer
	aggregator  *dataprocessing.Aggregator
	broadcaster Broadcaster
	metrics     *infrastructure.Metrics
	logger      *slog.Logger

	snapshot atomic.Pointer[domain.Snapshot]
}

// NewDashboardService creates a dashboard service. The broadcaster and
// metrics are optional; nil disables the corresponding side effect.
func NewDashboardService(fetcher GridFetcher, broadcaster Broadcaster, metrics *infrastructure.Metrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	return &DashboardService{
		fetcher:     fetcher,
		normalizer:  dataprocessing.NewNormalizer(logger),
		aggregator:  dataprocessing.NewAggregator(logger),
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

// Refresh runs one full cycle: fetch, normalize, aggregate, swap. It is safe
// to call concurrently; each invocation is independent and the swap is
// atomic. On fetch failure the previous snapshot stays in place.
func (s *DashboardService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RefreshTotal.Inc()
	}

	if s.fetcher == nil {
		return nil, apierrors.ErrSourceNotConfigured
	}

	grid, err := s.fetcher.FetchGrid(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RefreshFailures.Inc()
		}
		s.logger.ErrorContext(ctx, "refresh failed at fetch boundary",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("refresh: %w", err)
	}

	headers, records, entries := s.normalizer.Normalize(grid)
	summary := s.aggregator.Summarize(entries)

	snap := &domain.Snapshot{
		ID:        uuid.New().String(),
		FetchedAt: time.Now().UTC(),
		Headers:   headers,
		Records:   records,
		Entries:   entries,
		Summary:   summary,
	}
	s.snapshot.Store(snap)

	if s.metrics != nil {
		s.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		s.metrics.RecordCount.Set(float64(len(records)))
		s.metrics.SectorCount.Set(float64(len(summary.SectorCounts)))
	}

	s.logger.InfoContext(ctx, "snapshot refreshed",
		slog.String("snapshot_id", snap.ID),
		slog.Int("record_count", len(records)),
		slog.Duration("duration", time.Since(start)))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastDataUpdate(snap.ID, len(records))
	}

	return snap, nil
}

// Snapshot returns the current snapshot, or false before the first
// successful refresh.
func (s *DashboardService) Snapshot() (*domain.Snapshot, bool) {
	snap := s.snapshot.Load()
	return snap, snap != nil
}

// Summary returns the current roll-up statistics.
func (s *DashboardService) Summary(ctx context.Context) (domain.SummaryStats, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return domain.SummaryStats{}, apierrors.ErrSnapshotNotReady
	}
	return snap.Summary, nil
}

// Companies returns the raw table view: header order plus one record per row.
func (s *DashboardService) Companies(ctx context.Context) ([]string, []domain.Record, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return nil, nil, apierrors.ErrSnapshotNotReady
	}
	return snap.Headers, snap.Records, nil
}

// ChartSeries returns the growth-comparison series in record order.
func (s *DashboardService) ChartSeries(ctx context.Context) ([]domain.ChartPoint, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return nil, apierrors.ErrSnapshotNotReady
	}
	return s.aggregator.ChartSeries(snap.Entries), nil
}

// TopMarginExpansion returns the n entries with the highest margin expansion.
func (s *DashboardService) TopMarginExpansion(ctx context.Context, n int) ([]domain.NormalizedEntry, error) {
	snap, ok := s.Snapshot()
	if !ok {
		return nil, apierrors.ErrSnapshotNotReady
	}
	return s.aggregator.TopByMarginExpansion(snap.Entries, n), nil
}

// LastRefresh returns the fetch time of the current snapshot, if any.
func (s *DashboardService) LastRefresh() (time.Time, bool) {
	snap, ok := s.Snapshot()
	if !ok {
		return time.Time{}, false
	}
	return snap.FetchedAt, true
}
