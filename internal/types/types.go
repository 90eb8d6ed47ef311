// =============================================================================
// Order Summarizer - Shared Types
// =============================================================================
//
// This package contains the row and cell types shared by the loaders and the
// summarizer. Types defined here are used by:
//   - csvparser
//   - xlsxparser
//   - summary
//
// A row is purely positional: there is no header mapping, column meaning is
// decided by the caller's layout.
//
// =============================================================================

package types

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL TYPES
// =============================================================================

// CellKind identifies what a cell holds.
type CellKind int

const (
	// CellAbsent is an empty or missing cell. It is the zero value.
	CellAbsent CellKind = iota

	// CellText is a string cell.
	CellText

	// CellNumber is a numeric cell.
	CellNumber

	// CellBool is a boolean cell.
	CellBool
)

// String returns the lower-case name of the kind.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	default:
		return "absent"
	}
}

// Cell is a single raw value from a tabular source.
// Only the field matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Bool   bool
}

// Absent returns an empty cell.
func Absent() Cell {
	return Cell{}
}

// Text returns a text cell. The value is kept as-is, whitespace included.
func Text(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

// Int returns a numeric cell holding an integer.
func Int(n int64) Cell {
	return Number(decimal.NewFromInt(n))
}

// Bool returns a boolean cell.
func Bool(b bool) Cell {
	return Cell{Kind: CellBool, Bool: b}
}

// MaxExponent bounds the magnitude of the exponent ParseDecimal accepts.
const MaxExponent = 1024

// ParseDecimal parses s as a plain or exponent-notation decimal. Values
// outside the float64 range, or whose exponent magnitude exceeds
// MaxExponent, are rejected like any other non-number.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if f, err := strconv.ParseFloat(s, 64); err != nil || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// IsAbsent reports whether the cell holds nothing.
func (c Cell) IsAbsent() bool {
	return c.Kind == CellAbsent
}

// =============================================================================
// ROW TYPE
// =============================================================================

// RawRow is an ordered sequence of cells as produced by a loader.
// Rows are never modified after loading.
type RawRow []Cell

// At returns the cell at index i, or an absent cell when i is out of range.
func (r RawRow) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Absent()
	}
	return r[i]
}

// Row builds a RawRow of length n where the given cells are placed at their
// column indexes. It is mainly useful for building fixtures with sparse
// columns, e.g. Row(19, map[int]Cell{8: Text("K100"), 18: Int(5)}).
func Row(n int, cells map[int]Cell) RawRow {
	row := make(RawRow, n)
	for i, c := range cells {
		if i >= 0 && i < n {
			row[i] = c
		}
	}
	return row
}
