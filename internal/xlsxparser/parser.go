// =============================================================================
// Order Summarizer - XLSX Parser Module
// =============================================================================
//
// This module reads the first worksheet of an order-export workbook into
// positional rows. Only the first sheet is considered; other sheets are
// ignored.
//
// CELL TYPING:
//   Raw (unformatted) cell values are read and typed from the cell's XML type:
//
//   | Cell type                         | Result                                |
//   |-----------------------------------|---------------------------------------|
//   | shared string, inline string      | text                                  |
//   | formula with string result, date  | text                                  |
//   | boolean                           | bool                                  |
//   | error (#N/A, #DIV/0!, ...)        | absent                                |
//   | number or untyped                 | number when it parses, text otherwise |
//
//   Trailing empty cells are not returned, so short rows read as absent
//   beyond their last value.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-summarizer/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens a workbook on disk and parses its first sheet.
func ParseFile(filePath string) ([]types.RawRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

// Parse reads a workbook from r and parses its first sheet.
//
// PARAMETERS:
//   - r: The XLSX content.
//
// RETURNS:
//   - All rows of the first sheet, header included.
//   - An error if the content is not a readable workbook.
func Parse(r io.Reader) ([]types.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

// parseWorkbook reads the first sheet of an open workbook.
func parseWorkbook(f *excelize.File) ([]types.RawRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheetName := sheets[0]

	values, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([]types.RawRow, len(values))
	for r, record := range values {
		row := make(types.RawRow, len(record))
		for c, value := range record {
			if value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("invalid cell at row %d column %d: %w", r+1, c+1, err)
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell type of %s: %w", cellName, err)
			}
			row[c] = convertCell(value, cellType)
		}
		rows[r] = row
	}

	return rows, nil
}

// convertCell types a raw cell value.
func convertCell(value string, cellType excelize.CellType) types.Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return types.Text(value)
	case excelize.CellTypeBool:
		return types.Bool(value == "1" || value == "TRUE" || value == "true")
	case excelize.CellTypeError:
		return types.Absent()
	default:
		if d, ok := types.ParseDecimal(value); ok {
			return types.Number(d)
		}
		return types.Text(value)
	}
}
