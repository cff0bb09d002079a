package services

import (
	"context"
	"log/slog"
	"time"

	"growthpulse/pkg/contracts/domain"
)

// Refresher is the slice of the dashboard service the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// Poller triggers a refresh cycle on a fixed interval. It is the only
// concurrency-relevant construct around the core pipeline; the pipeline
// itself is a pure function of the fetched grid, so overlapping cycles are
// harmless and no mutual exclusion is needed.
type Poller struct {
	refresher    Refresher
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewPoller creates a poller. Callers must not start it unless a data source
// is configured; see config.SheetsConfig.HasSource.
func NewPoller(refresher Refresher, interval, fetchTimeout time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		refresher:    refresher,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		logger:       logger.With(slog.String("component", "poller")),
	}
}

// Run refreshes immediately, then on every interval tick until the context
// is cancelled. Refresh failures are logged and leave the previous snapshot
// in place; the next tick tries again.
func (p *Poller) Run(ctx context.Context) {
	p.logger.InfoContext(ctx, "poller started",
		slog.Duration("interval", p.interval))

	p.refreshOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refreshOnce(ctx)
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		}
	}
}

func (p *Poller) refreshOnce(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	if _, err := p.refresher.Refresh(refreshCtx); err != nil {
		p.logger.WarnContext(ctx, "scheduled refresh failed, keeping previous snapshot",
			slog.String("error", err.Error()))
	}
}
