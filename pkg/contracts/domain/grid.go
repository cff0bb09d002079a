package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CellKind identifies the variant held by a Cell.
type CellKind int

const (
	CellAbsent CellKind = iota
	CellString
	CellNumber
)

// Cell is one spreadsheet cell. The tabular API delivers cells as untyped
// JSON values; Cell pins them to a closed set of variants so downstream
// coercion never has to type-switch on interface{}.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
}

// CellFrom converts a raw API cell value into a Cell.
func CellFrom(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return Cell{Kind: CellAbsent}
	case string:
		return Cell{Kind: CellString, Str: val}
	case float64:
		return Cell{Kind: CellNumber, Num: val}
	case int:
		return Cell{Kind: CellNumber, Num: float64(val)}
	case int64:
		return Cell{Kind: CellNumber, Num: float64(val)}
	case bool:
		if val {
			return Cell{Kind: CellString, Str: "TRUE"}
		}
		return Cell{Kind: CellString, Str: "FALSE"}
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Cell{Kind: CellNumber, Num: f}
		}
		return Cell{Kind: CellString, Str: val.String()}
	default:
		return Cell{Kind: CellAbsent}
	}
}

// Text returns the cell's raw display string. Numbers are rendered with the
// shortest representation that round-trips; absent cells render as "".
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// IsEmpty reports whether the cell is absent or holds only whitespace.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellAbsent:
		return true
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	default:
		return false
	}
}

// MarshalJSON renders a cell as its underlying value: string, number, or "".
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Num)
	default:
		return json.Marshal(c.Text())
	}
}

// RawGrid is the unparsed 2-D tabular input from the data source, header row
// first. Row order is significant; column order only matters until headers
// are mapped.
type RawGrid [][]Cell

// GridFromValues converts the values payload of a tabular-data API response
// into a RawGrid.
func GridFromValues(values [][]interface{}) RawGrid {
	grid := make(RawGrid, 0, len(values))
	for _, row := range values {
		cells := make([]Cell, 0, len(row))
		for _, v := range row {
			cells = append(cells, CellFrom(v))
		}
		grid = append(grid, cells)
	}
	return grid
}

// Record is one data row keyed by header field name. Values stay raw; typed
// access goes through the normalizer's coercion functions.
type Record map[string]Cell
