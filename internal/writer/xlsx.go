package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

// =============================================================================
// XLSX GENERATION
// =============================================================================
//
// WORKBOOK STRUCTURE:
//   Summary       - one row per group (name, distinct SKUs, total) and a
//                   grand total row
//   <group name>  - SKU and Quantity columns, one row per item
//
// Group names are sanitized into valid sheet names ("K/L/D SKUs" becomes
// "K-L-D SKUs"). Quantities are stored as numbers.
//
// =============================================================================

const summarySheet = "Summary"

// maxSheetNameLength is Excel's limit on sheet name length.
const maxSheetNameLength = 31

func writeXLSX(w io.Writer, res *summary.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Group", "SKUs", "Total"}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	groups := res.Groups()
	for i, group := range groups {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{group.Name, len(group.Items), group.Total().InexactFloat64()}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}

		if err := writeGroupSheet(f, uniqueSheetName(group.Name, used), group); err != nil {
			return err
		}
	}

	cell, _ := excelize.CoordinatesToCellName(1, len(groups)+2)
	if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{"Grand Total", "", res.GrandTotal.InexactFloat64()}); err != nil {
		return fmt.Errorf("failed to write grand total: %w", err)
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size summary sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write XLSX summary: %w", err)
	}
	return nil
}

// writeGroupSheet adds a sheet listing one group's items.
func writeGroupSheet(f *excelize.File, sheet string, group summary.GroupResult) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"SKU", "Quantity"}); err != nil {
		return fmt.Errorf("failed to write header of sheet %q: %w", sheet, err)
	}

	for i, item := range group.Items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{item.SKU, item.Quantity.InexactFloat64()}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+2, sheet, err)
		}
	}

	return nil
}

// SheetName turns a group name into a valid worksheet name: characters Excel
// rejects are replaced by "-", leading and trailing apostrophes are dropped
// and the result is cut to 31 characters. An empty result becomes "Group".
func SheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(strings.Trim(cleaned, "'"))

	if runes := []rune(cleaned); len(runes) > maxSheetNameLength {
		cleaned = strings.TrimSpace(string(runes[:maxSheetNameLength]))
	}
	if cleaned == "" {
		return "Group"
	}
	return cleaned
}

// uniqueSheetName returns SheetName(name), suffixed with a counter when the
// name is already taken. Excel compares sheet names case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	base := SheetName(name)
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetNameLength {
			runes = runes[:maxSheetNameLength-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
