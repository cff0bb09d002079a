package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthpulse/pkg/contracts/domain"
)

func gridFrom(rows ...[]interface{}) domain.RawGrid {
	return domain.GridFromValues(rows)
}

func TestMapHeaders(t *testing.T) {
	n := NewNormalizer(slog.Default())

	tests := []struct {
		name string
		grid domain.RawGrid
		want []string
	}{
		{
			name: "empty grid yields empty headers",
			grid: domain.RawGrid{},
			want: []string{},
		},
		{
			name: "nil grid yields empty headers",
			grid: nil,
			want: []string{},
		},
		{
			name: "headers are trimmed",
			grid: gridFrom([]interface{}{"  Company name ", "Market cap", " Symbol"}),
			want: []string{"Company name", "Market cap", "Symbol"},
		},
		{
			name: "numeric and absent header cells render as text",
			grid: gridFrom([]interface{}{"Name", float64(2024), nil}),
			want: []string{"Name", "2024", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.MapHeaders(tt.grid))
		})
	}
}

func TestToRecords(t *testing.T) {
	n := NewNormalizer(slog.Default())

	t.Run("empty grid yields empty records", func(t *testing.T) {
		assert.Empty(t, n.ToRecords(domain.RawGrid{}))
	})

	t.Run("header-only grid yields empty records", func(t *testing.T) {
		grid := gridFrom([]interface{}{"Name", "Sector"})
		assert.Empty(t, n.ToRecords(grid))
	})

	t.Run("short rows are padded with empty trailing fields", func(t *testing.T) {
		grid := gridFrom(
			[]interface{}{"Name", "Sector", "Market cap"},
			[]interface{}{"Acme"},
		)
		records := n.ToRecords(grid)
		require.Len(t, records, 1)
		assert.Equal(t, "Acme", records[0]["Name"].Text())
		assert.Equal(t, "", records[0]["Sector"].Text())
		assert.Equal(t, "", records[0]["Market cap"].Text())
	})

	t.Run("long rows drop extra trailing cells", func(t *testing.T) {
		grid := gridFrom(
			[]interface{}{"Name"},
			[]interface{}{"Acme", "stray", "cells"},
		)
		records := n.ToRecords(grid)
		require.Len(t, records, 1)
		require.Len(t, records[0], 1)
		assert.Equal(t, "Acme", records[0]["Name"].Text())
	})

	t.Run("duplicate headers resolve last-column-wins", func(t *testing.T) {
		grid := gridFrom(
			[]interface{}{"Name", "Name"},
			[]interface{}{"first", "second"},
		)
		records := n.ToRecords(grid)
		require.Len(t, records, 1)
		assert.Equal(t, "second", records[0]["Name"].Text())
	})

	t.Run("row order defines record order", func(t *testing.T) {
		grid := gridFrom(
			[]interface{}{"Name"},
			[]interface{}{"Acme"},
			[]interface{}{"Globex"},
			[]interface{}{"Initech"},
		)
		records := n.ToRecords(grid)
		require.Len(t, records, 3)
		assert.Equal(t, "Acme", records[0]["Name"].Text())
		assert.Equal(t, "Globex", records[1]["Name"].Text())
		assert.Equal(t, "Initech", records[2]["Name"].Text())
	})
}

func TestResolveField(t *testing.T) {
	rec := domain.Record{
		"Company Name": domain.Cell{Kind: domain.CellString, Str: "Acme"},
		"Name":         domain.Cell{Kind: domain.CellString, Str: "shadowed"},
		"Empty":        domain.Cell{Kind: domain.CellString, Str: "   "},
	}

	t.Run("first non-empty alias wins", func(t *testing.T) {
		assert.Equal(t, "Acme", ResolveField(rec, []string{"Company name", "Company Name", "Name"}))
	})

	t.Run("whitespace-only values are skipped", func(t *testing.T) {
		assert.Equal(t, "shadowed", ResolveField(rec, []string{"Empty", "Name"}))
	})

	t.Run("no match yields empty string", func(t *testing.T) {
		assert.Equal(t, "", ResolveField(rec, []string{"Missing", "AlsoMissing"}))
	})
}

func TestCoerceMagnitude(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.2B", 1.2e9},
		{"1.2b", 1.2e9},
		{"450M", 4.5e8},
		{"450m", 4.5e8},
		{"2T", 2e12},
		{"$2,500", 2500},
		{"$1.5B", 1.5e9},
		{" 42 ", 42},
		{"3.14", 3.14},
		{"-12.5", -12.5},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"B", 0},
		{"$,", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoerceMagnitude(tt.raw), 1e-9)
		})
	}
}

func TestCoercePercent(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"12.5%", 12.5},
		{"12.5", 12.5},
		{"-3.5%", -3.5},
		{" 7 % ", 7},
		{"", 0},
		{"n/a", 0},
		{"%", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoercePercent(tt.raw), 1e-9)
		})
	}
}

func TestNormalizeYesNo(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Yes", "Yes"},
		{"y", "Yes"},
		{"TRUE", "Yes"},
		{"1", "Yes"},
		{"Reduced", "Yes"},
		{"debt reduction ongoing", "Yes"},
		{"No", "No"},
		{"n", "No"},
		{"false", "No"},
		{"0", "No"},
		{"Unchanged", "No"},
		{"", "Unknown"},
		{"   ", "Unknown"},
		{"Partially", "Partially"},
		{"partially", "Partially"},
		// Containment quirk: "nothing" carries the no-set's "no" token.
		{"nothing", "No"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeYesNo(tt.raw))
		})
	}
}

func TestNormalize_EndToEnd(t *testing.T) {
	n := NewNormalizer(slog.Default())

	grid := gridFrom(
		[]interface{}{"Company name", "Market cap", "Revenue growth Percentage (YoY)", "Debt Reduced Or Not"},
		[]interface{}{"Acme", "1.2B", "15%", "Reduced"},
		[]interface{}{"Globex", "$500M", "-3.5%", "Unchanged"},
	)

	headers, records, entries := n.Normalize(grid)

	require.Len(t, headers, 4)
	require.Len(t, records, 2)
	require.Len(t, entries, 2)

	assert.Equal(t, "Acme", entries[0].Name)
	assert.InDelta(t, 1.2e9, entries[0].MarketCap, 1e-3)
	assert.InDelta(t, 15, entries[0].RevenueGrowthPct, 1e-9)
	assert.Equal(t, "Yes", entries[0].DebtReduced)
	assert.Equal(t, DefaultSector, entries[0].Sector)

	assert.Equal(t, "Globex", entries[1].Name)
	assert.InDelta(t, 5e8, entries[1].MarketCap, 1e-3)
	assert.InDelta(t, -3.5, entries[1].RevenueGrowthPct, 1e-9)
	assert.Equal(t, "No", entries[1].DebtReduced)

	// Table view keeps the raw cell strings.
	assert.Equal(t, "1.2B", records[0]["Market cap"].Text())
	assert.Equal(t, "$500M", records[1]["Market cap"].Text())
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(slog.Default())

	grid := gridFrom(
		[]interface{}{"Company name", "Market cap", "Which Sector this Company"},
		[]interface{}{"Acme", "1.2B", "Tech"},
		[]interface{}{"Globex", "bogus", ""},
	)

	h1, r1, e1 := n.Normalize(grid)
	h2, r2, e2 := n.Normalize(grid)

	assert.Equal(t, h1, h2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, e1, e2)
}

func TestNormalize_MalformedCellsDefaultNotError(t *testing.T) {
	n := NewNormalizer(slog.Default())

	grid := gridFrom(
		[]interface{}{"Company name", "Market cap", "Revenue growth Percentage (YoY)", "Which Sector this Company", "Debt Reduced Or Not"},
		[]interface{}{"", "not a number", "n/a", "", ""},
	)

	_, _, entries := n.Normalize(grid)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "", e.Name)
	assert.Zero(t, e.MarketCap)
	assert.Zero(t, e.RevenueGrowthPct)
	assert.Equal(t, DefaultSector, e.Sector)
	assert.Equal(t, "Unknown", e.DebtReduced)
}
