package resolver

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/henrye1/credit-paper/pkg/resolver/models"
)

// snapshot reads every populated cell of the open workbook into an ordered
// in-memory model. Sheets that cannot be read are kept with no cells so the
// output workbook still mirrors the input's sheet list.
func snapshot(f *excelize.File, bookName string) *models.Workbook {
	wb := &models.Workbook{BookName: bookName}
	for _, name := range f.GetSheetList() {
		sh := models.Sheet{Name: name}
		sh.Cells = snapshotCells(f, name)
		wb.Sheets = append(wb.Sheets, sh)
	}
	return wb
}

// snapshotCells walks the sheet's declared dimension row-major and collects
// every cell carrying a cached value, a formula, or both. The dimension walk
// (rather than GetRows) also catches formula cells past the last cached
// value in a row.
func snapshotCells(f *excelize.File, sheet string) []models.Cell {
	maxCol, maxRow := sheetExtent(f, sheet)
	if maxCol == 0 || maxRow == 0 {
		return nil
	}

	var cells []models.Cell
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			coord, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			value, _ := f.GetCellValue(sheet, coord)
			formula, _ := f.GetCellFormula(sheet, coord)
			if value == "" && formula == "" {
				continue
			}
			cells = append(cells, models.Cell{
				Sheet:   sheet,
				Coord:   coord,
				Value:   value,
				Formula: formula,
			})
		}
	}
	return cells
}

// sheetExtent returns the 1-based bounds of the sheet's used area, taken
// from the declared dimension with a GetRows fallback for files that omit
// or understate it.
func sheetExtent(f *excelize.File, sheet string) (maxCol, maxRow int) {
	if dim, err := f.GetSheetDimension(sheet); err == nil && dim != "" {
		end := dim
		if _, e, found := strings.Cut(dim, ":"); found {
			end = e
		}
		if col, row, err := excelize.CellNameToCoordinates(end); err == nil {
			maxCol, maxRow = col, row
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return maxCol, maxRow
	}
	if len(rows) > maxRow {
		maxRow = len(rows)
	}
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	return maxCol, maxRow
}
