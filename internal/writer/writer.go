// =============================================================================
// Order Summarizer - Writer Module
// =============================================================================
//
// This module exports a summary result to a file format. The same writers
// serve the `summarize --output` flag, the batch processor and the HTTP
// service.
//
// FORMATS:
//   | Format | Extension | Content                                          |
//   |--------|-----------|--------------------------------------------------|
//   | text   | .txt      | each group's clipboard text, then the grand total |
//   | xml    | .xml      | <orderSummary> document (see xml.go)             |
//   | csv    | .csv      | group,sku,quantity rows and a total row          |
//   | xlsx   | .xlsx     | Summary sheet and one sheet per group            |
//   | json   | .json     | the full result, snake_case keys                 |
//
// =============================================================================

package writer

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

// Format names an export format.
type Format string

const (
	FormatText Format = "text"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatXML, FormatCSV, FormatXLSX, FormatJSON}

// ParseFormat resolves a format name (case-insensitive; "txt" is accepted
// for text).
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "txt" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatXML:
		return "application/xml; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// MAIN WRITE FUNCTION
// =============================================================================

// Write exports res to w in the given format.
//
// PARAMETERS:
//   - w: Destination of the encoded result.
//   - res: The summary to export.
//   - format: One of Formats.
//
// RETURNS:
//   - An error if the format is unknown or writing fails.
func Write(w io.Writer, res *summary.Result, format Format) error {
	switch format {
	case FormatText:
		return writeText(w, res)
	case FormatXML:
		return writeXML(w, res)
	case FormatCSV:
		return writeCSV(w, res)
	case FormatXLSX:
		return writeXLSX(w, res)
	case FormatJSON:
		return writeJSON(w, res)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// =============================================================================
// TEXT, CSV AND JSON
// =============================================================================

// writeText writes each group under its name, in the clipboard line format.
//
// OUTPUT:
//
//	K/L/D SKUs
//	K100 - 7
//
//	R SKUs
//	r200 - 3
//
//	Grand Total: 17
func writeText(w io.Writer, res *summary.Result) error {
	bw := bufio.NewWriter(w)

	for _, group := range res.Groups() {
		fmt.Fprintln(bw, group.Name)
		if text := group.Text(); text != "" {
			fmt.Fprintln(bw, text)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "Grand Total: %s\n", res.GrandTotal.String())

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text summary: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, res *summary.Result) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"group", "sku", "quantity"}}
	for _, group := range res.Groups() {
		for _, item := range group.Items {
			records = append(records, []string{group.Name, item.SKU, item.Quantity.String()})
		}
	}
	records = append(records, []string{"total", "", res.GrandTotal.String()})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV summary: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, res *summary.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}
	return nil
}
