package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellFrom(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  Cell
	}{
		{"string", "Acme", Cell{Kind: CellString, Str: "Acme"}},
		{"float", 12.5, Cell{Kind: CellNumber, Num: 12.5}},
		{"int", 7, Cell{Kind: CellNumber, Num: 7}},
		{"nil", nil, Cell{Kind: CellAbsent}},
		{"bool true", true, Cell{Kind: CellString, Str: "TRUE"}},
		{"json number", json.Number("3.25"), Cell{Kind: CellNumber, Num: 3.25}},
		{"json number overflow", json.Number("not-a-number"), Cell{Kind: CellString, Str: "not-a-number"}},
		{"unknown type", struct{}{}, Cell{Kind: CellAbsent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CellFrom(tt.input))
		})
	}
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "Acme", Cell{Kind: CellString, Str: "Acme"}.Text())
	assert.Equal(t, "12.5", Cell{Kind: CellNumber, Num: 12.5}.Text())
	assert.Equal(t, "2500", Cell{Kind: CellNumber, Num: 2500}.Text())
	assert.Equal(t, "", Cell{Kind: CellAbsent}.Text())
}

func TestCellIsEmpty(t *testing.T) {
	assert.True(t, Cell{Kind: CellAbsent}.IsEmpty())
	assert.True(t, Cell{Kind: CellString, Str: "   "}.IsEmpty())
	assert.False(t, Cell{Kind: CellString, Str: "x"}.IsEmpty())
	assert.False(t, Cell{Kind: CellNumber, Num: 0}.IsEmpty())
}

func TestCellMarshalJSON(t *testing.T) {
	rec := Record{
		"name":  CellFrom("Acme"),
		"cap":   CellFrom(1.2e9),
		"blank": CellFrom(nil),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Acme","cap":1200000000,"blank":""}`, string(data))
}

func TestGridFromValues(t *testing.T) {
	grid := GridFromValues([][]interface{}{
		{"Company name", "Market Cap"},
		{"Acme", 1.2e9},
		{"Globex"},
	})

	require.Len(t, grid, 3)
	assert.Equal(t, "Company name", grid[0][0].Text())
	assert.Equal(t, 1.2e9, grid[1][1].Num)
	// Short rows stay short here; padding happens during normalization.
	assert.Len(t, grid[2], 1)
}

func TestGridFromValues_Empty(t *testing.T) {
	assert.Empty(t, GridFromValues(nil))
	assert.Empty(t, GridFromValues([][]interface{}{}))
}
