// Package dataprocessing turns raw spreadsheet grids into typed dashboard
// data. It is the core of the service and is deliberately pure: no I/O, no
// shared state, and no errors for malformed cells.
//
// # Architecture
//
// The package is organized into two stages invoked on every refresh cycle:
//
// 1. Normalizer: maps the header row, zips data rows into Records, and
// coerces heterogeneous cell strings (currency, percentages, abbreviated
// magnitudes like "1.2B", free-text yes/no variants) into typed values
// 2. Aggregator: derives summary statistics, sector groupings, chart series,
// and top-N rankings from the normalized entries
//
// # Usage
//
// Normalize a grid and aggregate it:
//
//	normalizer := dataprocessing.NewNormalizer(logger)
//	headers, records, entries := normalizer.Normalize(grid)
//
//	aggregator := dataprocessing.NewAggregator(logger)
//	summary := aggregator.Summarize(entries)
//	top := aggregator.TopByMarginExpansion(entries, 5)
//
// # Failure policy
//
// Cell-level problems never surface as errors. Unparseable numbers become 0,
// missing sectors become "Other", and unrecognized yes/no phrasings pass
// through capitalized. The only structural failure, an empty grid, degrades
// to empty output. This lets the aggregator sum and average without
// null-checking and guarantees the dashboard always renders something.
package dataprocessing
