package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"growthpulse/pkg/contracts/domain"
)

// Field alias lists, in priority order. The sheet template drifted over time
// so every semantic field accepts the header spellings seen in the wild.
var (
	NameAliases          = []string{"Company name", "Company Name", "Name", "company"}
	SymbolAliases        = []string{"Symbol", "Ticker", "symbol"}
	MarketCapAliases     = []string{"Market cap", "Market Cap", "MarketCap"}
	RevenueGrowthAliases = []string{"Revenue growth Percentage (YoY)", "Revenue Growth Percentage (YoY)", "Revenue Growth % (YoY)", "Revenue growth"}
	ProfitGrowthAliases  = []string{"Profit Growth Percentage (YoY)", "Profit growth Percentage (YoY)", "Profit Growth % (YoY)", "Profit growth"}
	MarginAliases        = []string{"Margin Expansion", "Margin expansion", "Margin Expansion %"}
	SectorAliases        = []string{"Which Sector this Company", "Sector", "sector"}
	RevenueStreamAliases = []string{"Main Revenue Stream", "Revenue Stream"}
	DebtReducedAliases   = []string{"Debt Reduced Or Not", "Debt Reduced", "Debt reduced"}
)

// DefaultSector is used when no sector alias resolves to a non-empty value.
const DefaultSector = "Other"

// Normalizer converts one raw grid into ordered Records plus their typed
// NormalizedEntry views in a single pass. It holds no state between passes;
// normalizing the same grid twice yields structurally identical output.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// MapHeaders returns the trimmed field names of the grid's first row. An
// empty grid yields an empty slice rather than an error; upstream fetch
// failures are handled separately and an empty sheet should simply render
// empty.
func (n *Normalizer) MapHeaders(grid domain.RawGrid) []string {
	if len(grid) == 0 {
		return []string{}
	}
	headers := make([]string, 0, len(grid[0]))
	for _, cell := range grid[0] {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	}
	return headers
}

// ToRecords zips every non-header row against the header row. Rows shorter
// than the header are padded with empty trailing fields; rows longer than
// the header drop their extra trailing cells. Spreadsheet rows routinely
// vary in trailing-cell count, so neither case is treated as a defect.
// Duplicate header names resolve last-column-wins.
func (n *Normalizer) ToRecords(grid domain.RawGrid) []domain.Record {
	headers := n.MapHeaders(grid)
	if len(grid) == 0 {
		return []domain.Record{}
	}

	records := make([]domain.Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(domain.Record, len(headers))
		for i, field := range headers {
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = domain.Cell{Kind: domain.CellString, Str: ""}
			}
		}
		records = append(records, rec)
	}
	return records
}

// Normalize is the single pass the refresh cycle runs: it returns the mapped
// headers, the raw Records for the table view, and the coerced entries for
// the summary and chart views.
func (n *Normalizer) Normalize(grid domain.RawGrid) ([]string, []domain.Record, []domain.NormalizedEntry) {
	headers := n.MapHeaders(grid)
	records := n.ToRecords(grid)

	entries := make([]domain.NormalizedEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, n.entryFromRecord(rec))
	}

	n.logger.Debug("grid normalized",
		slog.Int("header_count", len(headers)),
		slog.Int("record_count", len(records)))

	return headers, records, entries
}

func (n *Normalizer) entryFromRecord(rec domain.Record) domain.NormalizedEntry {
	sector := ResolveField(rec, SectorAliases)
	if sector == "" {
		sector = DefaultSector
	}

	return domain.NormalizedEntry{
		Name:               ResolveField(rec, NameAliases),
		Symbol:             ResolveField(rec, SymbolAliases),
		MarketCap:          CoerceMagnitude(ResolveField(rec, MarketCapAliases)),
		RevenueGrowthPct:   CoercePercent(ResolveField(rec, RevenueGrowthAliases)),
		ProfitGrowthPct:    CoercePercent(ResolveField(rec, ProfitGrowthAliases)),
		MarginExpansionPct: CoercePercent(ResolveField(rec, MarginAliases)),
		Sector:             sector,
		RevenueStream:      ResolveField(rec, RevenueStreamAliases),
		DebtReduced:        NormalizeYesNo(ResolveField(rec, DebtReducedAliases)),
	}
}

// ResolveField returns the trimmed value of the first alias that is present
// and non-empty in the record, or "" when none match.
func ResolveField(rec domain.Record, aliases []string) string {
	for _, alias := range aliases {
		if cell, ok := rec[alias]; ok && !cell.IsEmpty() {
			return strings.TrimSpace(cell.Text())
		}
	}
	return ""
}

// CoerceMagnitude parses an abbreviated magnitude string into a plain number.
// Currency symbols and thousands separators are stripped, a trailing b/m/t
// suffix (any case) scales by 1e9/1e6/1e12, and anything unparseable,
// including empty input, yields 0.
func CoerceMagnitude(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'b', 'B':
		multiplier = 1e9
		s = s[:len(s)-1]
	case 'm', 'M':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 't', 'T':
		multiplier = 1e12
		s = s[:len(s)-1]
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return val * multiplier
}

// CoercePercent parses a percentage string into its numeric value, with or
// without the trailing % sign. Unparseable input yields 0.
func CoercePercent(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return val
}

// Token sets for NormalizeYesNo, checked yes-set first. Multi-character
// tokens match by substring containment; single-character tokens require
// equality, otherwise any value containing a stray "y" or "n" would
// misclassify.
var (
	yesTokens = []string{"yes", "y", "true", "1", "reduced", "reduction"}
	noTokens  = []string{"no", "n", "false", "0", "unchanged"}
)

// NormalizeYesNo maps free-text yes/no phrasing onto "Yes"/"No". Empty input
// yields "Unknown"; anything matching neither token set passes through with
// its first character capitalized. Containment matching means a value like
// "nothing" lands in the no-set via its "no" token; that quirk is inherited
// from the sheet conventions and kept on purpose.
func NormalizeYesNo(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown"
	}

	lower := strings.ToLower(trimmed)
	if matchesAny(lower, yesTokens) {
		return "Yes"
	}
	if matchesAny(lower, noTokens) {
		return "No"
	}

	runes := []rune(trimmed)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func matchesAny(lower string, tokens []string) bool {
	for _, tok := range tokens {
		if len(tok) == 1 {
			if lower == tok {
				return true
			}
			continue
		}
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
