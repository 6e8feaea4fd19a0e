// Package lookup emulates positional spreadsheet lookups (MATCH, INDEX,
// VLOOKUP) over store-backed ranges.
package lookup

import (
	"strings"

	"github.com/henrye1/credit-paper/pkg/resolver/ref"
	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// Match returns the 1-based position of lookupValue within a one-dimensional
// range. Single-column ranges are scanned top to bottom, single-row ranges
// left to right. Comparison trims surrounding whitespace and is
// case-sensitive. Returns ok=false when the range is not one-dimensional,
// when a scanned cell has no resolved value yet, or when nothing matches.
func Match(st *store.Store, lookupValue string, rng ref.Range) (int, bool) {
	c1, r1, c2, r2, ok := rng.Bounds()
	if !ok {
		return 0, false
	}
	want := strings.TrimSpace(lookupValue)
	switch {
	case c1 == c2:
		for r := r1; r <= r2; r++ {
			v, ok := st.Get(rng.Sheet, ref.Coord(c1, r))
			if !ok {
				return 0, false
			}
			if strings.TrimSpace(v) == want {
				return r - r1 + 1, true
			}
		}
	case r1 == r2:
		for c := c1; c <= c2; c++ {
			v, ok := st.Get(rng.Sheet, ref.Coord(c, r1))
			if !ok {
				return 0, false
			}
			if strings.TrimSpace(v) == want {
				return c - c1 + 1, true
			}
		}
	}
	return 0, false
}

// Index returns the resolved value at the 1-based (rowOffset, colOffset)
// inside the declared range. The computed coordinate is looked up directly in
// the store without clamping to the declared bounds: an offset past the
// declared end still resolves when the store holds a value there, which
// tolerates slightly misdeclared ranges.
func Index(st *store.Store, rng ref.Range, rowOffset, colOffset int) (string, bool) {
	c1, r1, _, _, ok := rng.Bounds()
	if !ok {
		return "", false
	}
	col := c1 + colOffset - 1
	row := r1 + rowOffset - 1
	if col < 1 || row < 1 {
		return "", false
	}
	return st.Get(rng.Sheet, ref.Coord(col, row))
}

// Vlookup scans the first column of table top to bottom for an exact match on
// lookupValue and returns the value colIndex columns into the matched row.
// Cells without a resolved value in the key column are skipped.
func Vlookup(st *store.Store, lookupValue string, table ref.Range, colIndex int) (string, bool) {
	c1, r1, _, r2, ok := table.Bounds()
	if !ok || colIndex < 1 {
		return "", false
	}
	want := strings.TrimSpace(lookupValue)
	for r := r1; r <= r2; r++ {
		v, ok := st.Get(table.Sheet, ref.Coord(c1, r))
		if !ok {
			continue
		}
		if strings.TrimSpace(v) == want {
			return st.Get(table.Sheet, ref.Coord(c1+colIndex-1, r))
		}
	}
	return "", false
}
