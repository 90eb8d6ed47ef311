package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-summarizer/internal/types"
)

// orderRow places sku and qty at the default identifier and quantity columns.
func orderRow(sku, qty types.Cell) types.RawRow {
	return types.Row(DefaultQuantityColumn+1, map[int]types.Cell{
		DefaultIdentifierColumn: sku,
		DefaultQuantityColumn:   qty,
	})
}

func header() types.RawRow {
	return orderRow(types.Text("SKU"), types.Text("Quantity"))
}

func itemStrings(g GroupResult) []string {
	out := make([]string, len(g.Items))
	for i, item := range g.Items {
		out[i] = item.SKU + "=" + item.Quantity.String()
	}
	return out
}

func TestSummarizeScenario(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("K100"), types.Int(5)),
		orderRow(types.Text("r200"), types.Int(3)),
		orderRow(types.Text("K100"), types.Int(2)),
		orderRow(types.Text(""), types.Int(99)),
		orderRow(types.Text("Z900"), types.Int(7)),
	}

	res := Summarize(rows, DefaultLayout())

	assert.Equal(t, []string{"K100=7"}, itemStrings(res.GroupA))
	assert.Equal(t, []string{"r200=3"}, itemStrings(res.GroupB))
	assert.Equal(t, "17", res.GrandTotal.String())
	assert.Equal(t, "K/L/D SKUs", res.GroupA.Name)
	assert.Equal(t, "R SKUs", res.GroupB.Name)

	assert.Equal(t, 5, res.Stats.DataRows)
	assert.Equal(t, 1, res.Stats.SkippedRows)
	assert.Equal(t, 3, res.Stats.ClassifiedRows)
	assert.Equal(t, 1, res.Stats.UnclassifiedRows)
	assert.Equal(t, "7", res.Stats.UnclassifiedQuantity.String())
}

func TestSummarizeEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		rows []types.RawRow
	}{
		{name: "nil", rows: nil},
		{name: "header only", rows: []types.RawRow{header()}},
		{name: "no matching rows", rows: []types.RawRow{header(), orderRow(types.Absent(), types.Int(4))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Summarize(tt.rows, DefaultLayout())
			assert.Empty(t, res.GroupA.Items)
			assert.Empty(t, res.GroupB.Items)
			assert.NotNil(t, res.GroupA.Items)
			assert.NotNil(t, res.GroupB.Items)
			assert.True(t, res.GrandTotal.IsZero())
		})
	}
}

func TestSummarizeSkipsHeaderWhateverItHolds(t *testing.T) {
	rows := []types.RawRow{
		orderRow(types.Text("K999"), types.Int(1000)),
		orderRow(types.Text("L1"), types.Int(1)),
	}

	res := Summarize(rows, DefaultLayout())

	assert.Equal(t, []string{"L1=1"}, itemStrings(res.GroupA))
	assert.Equal(t, "1", res.GrandTotal.String())
	assert.Equal(t, 1, res.Stats.DataRows)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("D1"), types.Text("2.5")),
		orderRow(types.Text("R1"), types.Int(4)),
		orderRow(types.Text("D1"), types.Int(1)),
	}

	first := Summarize(rows, DefaultLayout())
	second := Summarize(rows, DefaultLayout())

	assert.Equal(t, itemStrings(first.GroupA), itemStrings(second.GroupA))
	assert.Equal(t, itemStrings(first.GroupB), itemStrings(second.GroupB))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.Equal(t, []string{"D1=3.5"}, itemStrings(first.GroupA))
}

func TestSummarizeClassification(t *testing.T) {
	tests := []struct {
		sku   string
		group string
	}{
		{sku: "K1", group: "a"},
		{sku: "k1", group: "a"},
		{sku: "L1", group: "a"},
		{sku: "l1", group: "a"},
		{sku: "D1", group: "a"},
		{sku: "d1", group: "a"},
		{sku: "R1", group: "b"},
		{sku: "r1", group: "b"},
		{sku: "Z1", group: ""},
		{sku: "1K", group: ""},
		{sku: " K1", group: ""},
		{sku: "ÄK", group: ""},
	}

	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			rows := []types.RawRow{header(), orderRow(types.Text(tt.sku), types.Int(1))}
			res := Summarize(rows, DefaultLayout())

			inA := len(res.GroupA.Items) == 1
			inB := len(res.GroupB.Items) == 1
			assert.False(t, inA && inB, "identifier must land in at most one group")

			switch tt.group {
			case "a":
				assert.True(t, inA)
			case "b":
				assert.True(t, inB)
			default:
				assert.False(t, inA || inB)
			}
			assert.Equal(t, "1", res.GrandTotal.String())
		})
	}
}

func TestSummarizeConservation(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("K1"), types.Int(3)),
		orderRow(types.Text("X1"), types.Text("4")),
		orderRow(types.Text("R1"), types.Number(decimal.RequireFromString("1.25"))),
		orderRow(types.Text("  "), types.Int(50)),
		orderRow(types.Text("9"), types.Int(6)),
		orderRow(types.Int(123), types.Int(70)),
		orderRow(types.Text("L2"), types.Text("n/a")),
	}

	res := Summarize(rows, DefaultLayout())

	sum := res.GroupA.Total().Add(res.GroupB.Total()).Add(res.Stats.UnclassifiedQuantity)
	assert.True(t, res.GrandTotal.Equal(sum), "grand %s != parts %s", res.GrandTotal, sum)
	assert.Equal(t, "14.25", res.GrandTotal.String())
	assert.Equal(t, 2, res.Stats.SkippedRows)
}

func TestSummarizeAggregatesRepeatedSKUs(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("K2"), types.Int(1)),
		orderRow(types.Text("K1"), types.Int(1)),
		orderRow(types.Text("K2"), types.Int(2)),
		orderRow(types.Text("R9"), types.Int(1)),
		orderRow(types.Text("K1"), types.Int(5)),
		orderRow(types.Text("R9"), types.Int(1)),
	}

	res := Summarize(rows, DefaultLayout())

	assert.Equal(t, []string{"K2=3", "K1=6"}, itemStrings(res.GroupA))
	assert.Equal(t, []string{"R9=2"}, itemStrings(res.GroupB))
}

func TestSummarizeKeepsCaseAndWhitespaceInKeys(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("K100"), types.Int(1)),
		orderRow(types.Text("k100"), types.Int(2)),
		orderRow(types.Text("K100 "), types.Int(4)),
	}

	res := Summarize(rows, DefaultLayout())

	assert.Equal(t, []string{"K100=1", "k100=2", "K100 =4"}, itemStrings(res.GroupA))
}

func TestSummarizeShortRowsDegradeToAbsent(t *testing.T) {
	rows := []types.RawRow{
		header(),
		{types.Text("only one cell")},
		types.Row(DefaultIdentifierColumn+1, map[int]types.Cell{DefaultIdentifierColumn: types.Text("K5")}),
	}

	res := Summarize(rows, DefaultLayout())

	require.Len(t, res.GroupA.Items, 1)
	assert.Equal(t, "K5", res.GroupA.Items[0].SKU)
	assert.True(t, res.GroupA.Items[0].Quantity.IsZero())
	assert.Equal(t, 1, res.Stats.SkippedRows)
}

func TestSummarizeCustomLayout(t *testing.T) {
	layout := Layout{
		IdentifierColumn: 0,
		QuantityColumn:   1,
		GroupA:           NewGroupRule("A items", "a"),
		GroupB:           NewGroupRule("B items", "b", "c"),
	}
	rows := []types.RawRow{
		{types.Text("sku"), types.Text("qty")},
		{types.Text("A-1"), types.Int(2)},
		{types.Text("C-1"), types.Int(3)},
		{types.Text("K-1"), types.Int(4)},
	}

	res := Summarize(rows, layout)

	assert.Equal(t, []string{"A-1=2"}, itemStrings(res.GroupA))
	assert.Equal(t, []string{"C-1=3"}, itemStrings(res.GroupB))
	assert.Equal(t, "9", res.GrandTotal.String())
}

func TestResultGroupAndText(t *testing.T) {
	rows := []types.RawRow{
		header(),
		orderRow(types.Text("K1"), types.Int(2)),
		orderRow(types.Text("L7"), types.Text("1.5")),
	}
	res := Summarize(rows, DefaultLayout())

	g, ok := res.Group("A")
	require.True(t, ok)
	assert.Equal(t, "K1 - 2\nL7 - 1.5", g.Text())
	assert.Equal(t, "3.5", g.Total().String())

	g, ok = res.Group("group-b")
	require.True(t, ok)
	assert.Equal(t, "", g.Text())

	_, ok = res.Group("c")
	assert.False(t, ok)

	assert.True(t, IsGroupKey(" b "))
	assert.False(t, IsGroupKey(""))
}
