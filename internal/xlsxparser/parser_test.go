package xlsxparser

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-summarizer/internal/types"
)

// buildWorkbook writes the given cells into the first sheet of a new workbook.
func buildWorkbook(t *testing.T, cells map[string]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	for cell, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", cell, value))
	}
	return f
}

func TestParseTypesCells(t *testing.T) {
	f := buildWorkbook(t, map[string]any{
		"I1": "SKU",
		"S1": "Qty",
		"I2": "K100",
		"S2": 5,
		"I3": "R200",
		"S3": 2.5,
		"A4": true,
		"I4": "123",
	})

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, types.Text("SKU"), rows[0].At(8))
	assert.Equal(t, types.Text("K100"), rows[1].At(8))
	assert.Equal(t, types.CellNumber, rows[1].At(18).Kind)
	assert.Equal(t, "5", rows[1].At(18).Number.String())
	assert.Equal(t, "2.5", rows[2].At(18).Number.String())

	// Gaps before the last value read as absent.
	assert.True(t, rows[1].At(0).IsAbsent())
	assert.True(t, rows[1].At(30).IsAbsent())

	assert.Equal(t, types.Bool(true), rows[3].At(0))

	// A numeric-looking string stays text.
	assert.Equal(t, types.Text("123"), rows[3].At(8))
}

func TestParseOnlyFirstSheet(t *testing.T) {
	f := buildWorkbook(t, map[string]any{"A1": "first"})
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "second"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.Text("first"), rows[0].At(0))
}

func TestParseFile(t *testing.T) {
	f := buildWorkbook(t, map[string]any{"I1": "SKU", "I2": "D1", "S2": 4})
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))

	rows, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Text("D1"), rows[1].At(8))
	assert.Equal(t, "4", rows[1].At(18).Number.String())
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	_, err := Parse(strings.NewReader("sku,qty\nK1,2\n"))
	assert.Error(t, err)
}

func TestConvertCell(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		cellType excelize.CellType
		want     types.Cell
	}{
		{name: "shared string", value: "K1", cellType: excelize.CellTypeSharedString, want: types.Text("K1")},
		{name: "inline string", value: "7", cellType: excelize.CellTypeInlineString, want: types.Text("7")},
		{name: "formula", value: "abc", cellType: excelize.CellTypeFormula, want: types.Text("abc")},
		{name: "bool true", value: "1", cellType: excelize.CellTypeBool, want: types.Bool(true)},
		{name: "bool false", value: "0", cellType: excelize.CellTypeBool, want: types.Bool(false)},
		{name: "error", value: "#N/A", cellType: excelize.CellTypeError, want: types.Absent()},
		{name: "untyped number", value: "12", cellType: excelize.CellTypeUnset, want: types.Int(12)},
		{name: "untyped text", value: "x", cellType: excelize.CellTypeUnset, want: types.Text("x")},
		{name: "out of range number", value: "1e50000000", cellType: excelize.CellTypeUnset, want: types.Text("1e50000000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertCell(tt.value, tt.cellType)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Text, got.Text)
			assert.Equal(t, tt.want.Bool, got.Bool)
			assert.True(t, tt.want.Number.Equal(got.Number))
		})
	}
}
