// Package ref normalizes spreadsheet reference syntax into canonical
// sheet-qualified coordinates and ranges.
package ref

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is a sheet-qualified cell coordinate such as ("Data", "B7").
type Cell struct {
	Sheet string
	Coord string
}

// Range is a rectangular block of cells on a single sheet.
type Range struct {
	Sheet string
	Start string
	End   string
}

// ParseCellRef parses a reference like "B7", "$B$7", "Sheet2!B7" or
// "'My Sheet'!$B$7" into a sheet-qualified coordinate. Absolute markers are
// stripped and the coordinate is uppercased. References without a sheet
// qualifier resolve against currentSheet. Malformed input degrades to a
// best-effort coordinate; downstream lookups simply miss.
func ParseCellRef(text, currentSheet string) Cell {
	s := strings.TrimSpace(strings.ReplaceAll(text, "$", ""))
	if i := strings.LastIndex(s, "!"); i >= 0 {
		sheet := strings.Trim(s[:i], "'")
		if sheet == "" {
			sheet = currentSheet
		}
		return Cell{Sheet: sheet, Coord: strings.ToUpper(strings.TrimSpace(s[i+1:]))}
	}
	return Cell{Sheet: currentSheet, Coord: strings.ToUpper(s)}
}

// Valid reports whether the coordinate part of the cell is well formed.
func (c Cell) Valid() bool {
	_, _, ok := ParseCoordinate(c.Coord)
	return ok
}

// ParseCoordinate splits a coordinate like "B17" into its column letters and
// 1-based row. ok is false for malformed input.
func ParseCoordinate(text string) (letters string, row int, ok bool) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), "$", ""))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return s[:i], n, true
}

// ParseRange parses a range like "Sheet1!B2:I7" or "$B$2:$I$7" into a Range.
// Ranges without a sheet qualifier resolve against currentSheet.
func ParseRange(text, currentSheet string) (Range, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(text, "$", ""))
	sheet := currentSheet
	if i := strings.LastIndex(s, "!"); i >= 0 {
		sheet = strings.Trim(s[:i], "'")
		s = s[i+1:]
	}
	start, end, found := strings.Cut(s, ":")
	if !found {
		return Range{}, false
	}
	start = strings.ToUpper(strings.TrimSpace(start))
	end = strings.ToUpper(strings.TrimSpace(end))
	if _, _, ok := ParseCoordinate(start); !ok {
		return Range{}, false
	}
	if _, _, ok := ParseCoordinate(end); !ok {
		return Range{}, false
	}
	return Range{Sheet: sheet, Start: start, End: end}, true
}

// Bounds returns the 1-based column and row bounds of the range.
func (r Range) Bounds() (startCol, startRow, endCol, endRow int, ok bool) {
	sl, sr, ok1 := ParseCoordinate(r.Start)
	el, er, ok2 := ParseCoordinate(r.End)
	if !ok1 || !ok2 {
		return 0, 0, 0, 0, false
	}
	return ColumnNumber(sl), sr, ColumnNumber(el), er, true
}

// ColumnNumber converts column letters to a 1-based column number, treating
// the letters as a base-26 numeral with A=1. Returns 0 for invalid input.
func ColumnNumber(letters string) int {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0
	}
	return n
}

// ColumnName converts a 1-based column number back to column letters.
// Returns "" for invalid input.
func ColumnName(n int) string {
	s, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return ""
	}
	return s
}

// Coord builds a coordinate string from 1-based column and row numbers.
func Coord(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}
