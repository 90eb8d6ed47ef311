// =============================================================================
// Order Summarizer - Summary Module
// =============================================================================
//
// This module turns the rows of an order export into per-group SKU totals and
// a grand total. It is the only part of the program that makes decisions
// about the data; loaders, writers and commands only move rows and results
// around.
//
// PIPELINE (per row after the header):
//   1. Read the identifier cell; skip the row unless it is non-blank text
//   2. Coerce the quantity cell to a number (0 when it is not numeric)
//   3. Classify the identifier by its upper-cased first character
//   4. Add the quantity to the group's running total for that exact SKU
//   5. Add the quantity to the grand total, classified or not
//
// ERROR HANDLING:
//   Summarize never fails. Malformed cells degrade to "row skipped" or
//   "quantity 0". Order exports are uncontrolled external files.
//
// =============================================================================

package summary

import (
	"strings"

	"github.com/ginjaninja78/order-summarizer/internal/types"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// SummaryItem is the aggregated quantity of one SKU within a group.
type SummaryItem struct {
	// SKU is the identifier exactly as it appeared in the source.
	// Aggregation is case-sensitive: "K100" and "k100" are distinct items.
	SKU string `json:"sku" yaml:"sku"`

	// Quantity is the sum of all quantities recorded for SKU.
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
}

// GroupResult is one named partition of the summary.
type GroupResult struct {
	// Name is the group's display title.
	Name string `json:"name" yaml:"name"`

	// Items are ordered by first occurrence in the source rows.
	Items []SummaryItem `json:"items" yaml:"items"`
}

// Total returns the sum of all item quantities in the group.
func (g GroupResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range g.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// Text renders the group as newline-delimited "<sku> - <quantity>" lines,
// the format used for clipboard export.
func (g GroupResult) Text() string {
	lines := make([]string, len(g.Items))
	for i, item := range g.Items {
		lines[i] = item.SKU + " - " + item.Quantity.String()
	}
	return strings.Join(lines, "\n")
}

// Stats describes how the rows were disposed of.
type Stats struct {
	// DataRows is the number of rows after the header.
	DataRows int `json:"data_rows"`

	// SkippedRows had no usable identifier.
	SkippedRows int `json:"skipped_rows"`

	// ClassifiedRows landed in group A or group B.
	ClassifiedRows int `json:"classified_rows"`

	// UnclassifiedRows had an identifier matching neither group.
	UnclassifiedRows int `json:"unclassified_rows"`

	// UnclassifiedQuantity is the part of the grand total from unclassified rows.
	UnclassifiedQuantity decimal.Decimal `json:"unclassified_quantity"`
}

// Result is the outcome of summarizing one file.
type Result struct {
	GroupA     GroupResult     `json:"group_a"`
	GroupB     GroupResult     `json:"group_b"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Stats      Stats           `json:"stats"`
}

// Group returns the group addressed by key: "a"/"group-a" or "b"/"group-b"
// (case-insensitive). The second return is false for any other key.
func (r *Result) Group(key string) (GroupResult, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "a", "group-a", "group_a":
		return r.GroupA, true
	case "b", "group-b", "group_b":
		return r.GroupB, true
	default:
		return GroupResult{}, false
	}
}

// IsGroupKey reports whether key addresses a group in Result.Group.
func IsGroupKey(key string) bool {
	_, ok := (&Result{}).Group(key)
	return ok
}

// Groups returns both groups in display order.
func (r *Result) Groups() []GroupResult {
	return []GroupResult{r.GroupA, r.GroupB}
}

// =============================================================================
// AGGREGATION
// =============================================================================

// accumulator sums quantities per SKU while remembering first-seen order.
type accumulator struct {
	index map[string]int
	items []SummaryItem
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) add(sku string, qty decimal.Decimal) {
	if i, exists := a.index[sku]; exists {
		a.items[i].Quantity = a.items[i].Quantity.Add(qty)
		return
	}
	a.index[sku] = len(a.items)
	a.items = append(a.items, SummaryItem{SKU: sku, Quantity: qty})
}

func (a *accumulator) result(name string) GroupResult {
	items := a.items
	if items == nil {
		items = []SummaryItem{}
	}
	return GroupResult{Name: name, Items: items}
}

// =============================================================================
// MAIN SUMMARIZE FUNCTION
// =============================================================================

// Summarize aggregates rows according to layout.
//
// PARAMETERS:
//   - rows: All rows of the sheet. Row 0 is the header and is always skipped,
//     whatever it contains.
//   - layout: Column positions and group rules.
//
// RETURNS:
//   - A new Result. Both groups are empty and the grand total is zero when
//     no row carries an identifier.
//
// Summarize holds no state between calls and may be called concurrently on
// independent inputs.
func Summarize(rows []types.RawRow, layout Layout) *Result {
	groupA := newAccumulator()
	groupB := newAccumulator()
	grandTotal := decimal.Zero
	stats := Stats{UnclassifiedQuantity: decimal.Zero}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		stats.DataRows++

		sku, ok := Identifier(row.At(layout.IdentifierColumn))
		if !ok {
			stats.SkippedRows++
			continue
		}

		qty := Quantity(row.At(layout.QuantityColumn))

		switch layout.classify(sku) {
		case 'a':
			groupA.add(sku, qty)
			stats.ClassifiedRows++
		case 'b':
			groupB.add(sku, qty)
			stats.ClassifiedRows++
		default:
			stats.UnclassifiedRows++
			stats.UnclassifiedQuantity = stats.UnclassifiedQuantity.Add(qty)
		}

		grandTotal = grandTotal.Add(qty)
	}

	return &Result{
		GroupA:     groupA.result(layout.GroupA.Name),
		GroupB:     groupB.result(layout.GroupB.Name),
		GrandTotal: grandTotal,
		Stats:      stats,
	}
}
