// =============================================================================
// Order Summarizer - CSV Parser Module
// =============================================================================
//
// This module reads delimited-text order exports into positional rows. It
// handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Rows with varying field counts
//   - Loosely quoted fields
//
// Unlike a schema-driven reader, no header mapping is performed: the first
// row is returned like any other and it is the summarizer that skips it.
// Field values are never trimmed, because identifiers are aggregated on
// their exact source text.
//
// CELL TYPING:
//   Spreadsheet applications type CSV fields while importing them. With
//   InferNumbers enabled, a field that is exactly a decimal number becomes a
//   numeric cell; every other non-empty field is a text cell; empty fields
//   are absent.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens a CSV file and parses it with Parse.
func ParseFile(filePath string, settings config.CSVSettings) ([]types.RawRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, settings)
}

// Parse reads every record from r and converts it to a RawRow.
//
// PARAMETERS:
//   - r: The CSV source.
//   - settings: Delimiter and typing options.
//
// RETURNS:
//   - All rows in source order, header included. An empty source yields no
//     rows and no error.
//   - An error if the CSV is malformed beyond what lazy quoting tolerates.
func Parse(r io.Reader, settings config.CSVSettings) ([]types.RawRow, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	var rows []types.RawRow
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, convertRecord(record, settings.InferNumbers))
	}

	return rows, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Exports are not always rectangular.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
	reader.ReuseRecord = false
}

// Delimiter maps a configured delimiter name to its rune. Aliases such as
// "tab" and "pipe" are accepted; an empty value means comma. The result is
// only meaningful for names accepted by IsDelimiter.
func Delimiter(name string) rune {
	switch name {
	case "comma", "COMMA":
		return ','
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon", "SEMICOLON":
		return ';'
	case "":
		return ','
	default:
		return []rune(name)[0]
	}
}

// IsDelimiter reports whether name is a known alias or a single character
// the CSV reader can split on.
func IsDelimiter(name string) bool {
	switch name {
	case "", "comma", "COMMA", "\\t", "tab", "TAB", "pipe", "PIPE", "semicolon", "SEMICOLON":
		return true
	}
	if utf8.RuneCountInString(name) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	switch r {
	case '"', '\r', '\n', utf8.RuneError, '\uFEFF':
		return false
	}
	return true
}

// convertRecord turns CSV fields into cells.
func convertRecord(record []string, inferNumbers bool) types.RawRow {
	row := make(types.RawRow, len(record))
	for i, field := range record {
		row[i] = convertField(field, inferNumbers)
	}
	return row
}

func convertField(field string, inferNumbers bool) types.Cell {
	if field == "" {
		return types.Absent()
	}
	if inferNumbers {
		if d, ok := types.ParseDecimal(field); ok {
			return types.Number(d)
		}
	}
	return types.Text(field)
}
