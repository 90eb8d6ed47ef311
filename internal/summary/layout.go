package summary

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default positions of the export columns (0-indexed).
const (
	// DefaultIdentifierColumn is column "I".
	DefaultIdentifierColumn = 8

	// DefaultQuantityColumn is column "S".
	DefaultQuantityColumn = 18
)

// GroupRule routes identifiers to a named group by their first character.
type GroupRule struct {
	// Name is the display title of the group.
	Name string

	// Letters holds the accepted first characters, upper-cased.
	Letters []rune
}

// NewGroupRule builds a rule from a name and a set of letters. Each letter is
// upper-cased; only the first rune of each entry is used.
func NewGroupRule(name string, letters ...string) GroupRule {
	rule := GroupRule{Name: name}
	for _, l := range letters {
		r, size := utf8.DecodeRuneInString(l)
		if size == 0 || r == utf8.RuneError {
			continue
		}
		rule.Letters = append(rule.Letters, unicode.ToUpper(r))
	}
	return rule
}

// Matches reports whether the upper-cased first character c belongs to the rule.
func (g GroupRule) Matches(c rune) bool {
	for _, l := range g.Letters {
		if l == c {
			return true
		}
	}
	return false
}

// String lists the letters joined by "/", e.g. "K/L/D".
func (g GroupRule) String() string {
	parts := make([]string, len(g.Letters))
	for i, l := range g.Letters {
		parts[i] = string(l)
	}
	return strings.Join(parts, "/")
}

// Layout tells the summarizer where to look and how to classify.
type Layout struct {
	IdentifierColumn int
	QuantityColumn   int
	GroupA           GroupRule
	GroupB           GroupRule
}

// DefaultLayout returns the order-export layout: identifiers in column I,
// quantities in column S, K/L/D SKUs in group A and R SKUs in group B.
func DefaultLayout() Layout {
	return Layout{
		IdentifierColumn: DefaultIdentifierColumn,
		QuantityColumn:   DefaultQuantityColumn,
		GroupA:           NewGroupRule("K/L/D SKUs", "K", "L", "D"),
		GroupB:           NewGroupRule("R SKUs", "R"),
	}
}

// classify returns 'a', 'b', or 0 for an identifier. The first character is
// taken from the identifier exactly as stored, leading whitespace included.
func (l Layout) classify(sku string) byte {
	r, _ := utf8.DecodeRuneInString(sku)
	c := unicode.ToUpper(r)
	switch {
	case l.GroupA.Matches(c):
		return 'a'
	case l.GroupB.Matches(c):
		return 'b'
	default:
		return 0
	}
}
