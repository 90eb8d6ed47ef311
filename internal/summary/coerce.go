package summary

import (
	"strings"

	"github.com/ginjaninja78/order-summarizer/internal/types"
	"github.com/shopspring/decimal"
)

// Identifier returns the SKU held by c. Only text cells that are not blank
// qualify; the returned string is the untrimmed source value.
func Identifier(c types.Cell) (string, bool) {
	if c.Kind != types.CellText {
		return "", false
	}
	if strings.TrimSpace(c.Text) == "" {
		return "", false
	}
	return c.Text, true
}

// Quantity coerces c to a number. Numeric cells are used as-is, text is
// parsed after trimming, booleans count as 1 or 0. Anything else is 0.
func Quantity(c types.Cell) decimal.Decimal {
	switch c.Kind {
	case types.CellNumber:
		return c.Number
	case types.CellText:
		return ParseNumber(c.Text)
	case types.CellBool:
		if c.Bool {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// ParseNumber parses s as a decimal (plain or exponent notation), returning
// zero when s is blank, not a number, or out of range.
func ParseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, ok := types.ParseDecimal(s)
	if !ok {
		return decimal.Zero
	}
	return d
}
