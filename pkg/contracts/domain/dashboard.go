package domain

import (
	"time"
)

// NormalizedEntry is the fully coerced, typed view of a Record used by the
// summary widgets and charts.
type NormalizedEntry struct {
	Name               string  `json:"name"`
	Symbol             string  `json:"symbol,omitempty"`
	MarketCap          float64 `json:"market_cap"`
	RevenueGrowthPct   float64 `json:"revenue_growth_pct"`
	ProfitGrowthPct    float64 `json:"profit_growth_pct"`
	MarginExpansionPct float64 `json:"margin_expansion_pct"`
	Sector             string  `json:"sector"`
	RevenueStream      string  `json:"revenue_stream"`
	DebtReduced        string  `json:"debt_reduced"`
}

// SectorCount is one sector bucket. SummaryStats carries these as an ordered
// slice rather than a map so first-seen sector order survives serialization.
type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// SummaryStats holds the roll-up statistics recomputed from scratch on every
// refresh cycle.
type SummaryStats struct {
	Count               int           `json:"count"`
	AvgRevenueGrowthPct float64       `json:"avg_revenue_growth_pct"`
	AvgProfitGrowthPct  float64       `json:"avg_profit_growth_pct"`
	SectorCounts        []SectorCount `json:"sector_counts"`
}

// ChartPoint is one entry of the growth-comparison chart series.
type ChartPoint struct {
	Name             string  `json:"name"`
	RevenueGrowthPct float64 `json:"revenue_growth_pct"`
	ProfitGrowthPct  float64 `json:"profit_growth_pct"`
}

// Snapshot is one immutable refresh result. The dashboard service swaps the
// whole value atomically; a snapshot is never mutated after construction and
// carries no identity across refresh cycles.
type Snapshot struct {
	ID        string            `json:"id"`
	FetchedAt time.Time         `json:"fetched_at"`
	Headers   []string          `json:"headers"`
	Records   []Record          `json:"records"`
	Entries   []NormalizedEntry `json:"entries"`
	Summary   SummaryStats      `json:"summary"`
}
