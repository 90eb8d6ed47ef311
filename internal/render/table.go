// Package render draws summary results for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6b7280")

	totalStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	quantityStyle = cellStyle.
			Align(lipgloss.Right)

	emptyStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)
)

// Tables renders res: a grand total line when the total is positive, then
// one bordered SKU/Quantity table per non-empty group. Empty groups are not
// shown at all; when nothing is shown a short notice is returned instead.
func Tables(res *summary.Result) string {
	var blocks []string

	if res.GrandTotal.IsPositive() {
		blocks = append(blocks, totalStyle.Render("Grand Total: "+res.GrandTotal.String()))
	}

	for _, group := range res.Groups() {
		if len(group.Items) == 0 {
			continue
		}
		blocks = append(blocks, groupTable(group))
	}

	if len(blocks) == 0 {
		return emptyStyle.Render("No matching SKUs found.") + "\n"
	}
	return strings.Join(blocks, "\n") + "\n"
}

func groupTable(group summary.GroupResult) string {
	rows := make([][]string, len(group.Items))
	for i, item := range group.Items {
		rows[i] = []string{item.SKU, item.Quantity.String()}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers("SKU", "Quantity").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return quantityStyle
			default:
				return cellStyle
			}
		})

	return titleStyle.Render(group.Name) + "\n" + t.String() + "\n"
}
