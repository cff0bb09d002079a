package dataprocessing

import (
	"log/slog"
	"sort"

	"github.com/montanaflynn/stats"

	"growthpulse/pkg/contracts/domain"
)

// Aggregator derives the roll-up statistics and ranked views that drive the
// summary widgets and charts. Like the normalizer it is stateless; every
// refresh recomputes everything from scratch rather than updating
// incrementally.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator with the given logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Summarize computes SummaryStats over the entries in a single left-to-right
// pass. Sector counts preserve first-seen order, keyed on the exact resolved
// sector string. Averages over an empty input are 0, not NaN.
func (a *Aggregator) Summarize(entries []domain.NormalizedEntry) domain.SummaryStats {
	summary := domain.SummaryStats{
		Count:        len(entries),
		SectorCounts: []domain.SectorCount{},
	}
	if len(entries) == 0 {
		return summary
	}

	revenue := make([]float64, 0, len(entries))
	profit := make([]float64, 0, len(entries))
	sectorIndex := make(map[string]int, len(entries))

	for _, e := range entries {
		revenue = append(revenue, e.RevenueGrowthPct)
		profit = append(profit, e.ProfitGrowthPct)

		if idx, seen := sectorIndex[e.Sector]; seen {
			summary.SectorCounts[idx].Count++
		} else {
			sectorIndex[e.Sector] = len(summary.SectorCounts)
			summary.SectorCounts = append(summary.SectorCounts, domain.SectorCount{Sector: e.Sector, Count: 1})
		}
	}

	summary.AvgRevenueGrowthPct, _ = stats.Mean(revenue)
	summary.AvgProfitGrowthPct, _ = stats.Mean(profit)

	a.logger.Debug("entries summarized",
		slog.Int("count", summary.Count),
		slog.Int("sector_count", len(summary.SectorCounts)))

	return summary
}

// TopByMarginExpansion returns the first n entries after a stable descending
// sort on margin expansion. Stability matters: entries with equal margin
// expansion keep their input order so repeated refreshes with unchanged data
// render an unchanging top-N list.
func (a *Aggregator) TopByMarginExpansion(entries []domain.NormalizedEntry, n int) []domain.NormalizedEntry {
	ranked := make([]domain.NormalizedEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MarginExpansionPct > ranked[j].MarginExpansionPct
	})

	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// ChartSeries projects the entries onto the growth-comparison chart contract,
// preserving input order.
func (a *Aggregator) ChartSeries(entries []domain.NormalizedEntry) []domain.ChartPoint {
	series := make([]domain.ChartPoint, 0, len(entries))
	for _, e := range entries {
		series = append(series, domain.ChartPoint{
			Name:             e.Name,
			RevenueGrowthPct: e.RevenueGrowthPct,
			ProfitGrowthPct:  e.ProfitGrowthPct,
		})
	}
	return series
}
