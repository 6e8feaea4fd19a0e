// Package models defines the workbook snapshot consumed by the resolver.
package models

import "strconv"

// Cell is one populated cell of the source workbook.
type Cell struct {
	// Sheet is the owning sheet name.
	Sheet string
	// Coord is the letter-number coordinate, e.g. "B7".
	Coord string
	// Value is the literal or cached value as displayed ("" when absent).
	Value string
	// Formula is the formula text for formula cells ("" for literals).
	Formula string
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

// ParseValue re-types a raw cell value for output.
// Returns int64 for integers, float64 for decimals, or the original string.
func ParseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
