package resolver

import (
	"github.com/xuri/excelize/v2"

	"github.com/henrye1/credit-paper/pkg/resolver/models"
	"github.com/henrye1/credit-paper/pkg/resolver/store"
)

// writeWorkbook materializes a values-only workbook: identical sheet names
// and order, literals copied through, formula cells replaced by their
// resolved value or left empty. Formula text never reaches the output.
// A formula cell resolved to the empty string (the IFERROR/IF blank result)
// is emitted as an absent cell: xlsx has no useful distinction between an
// empty-string cell and no cell, so the store's "resolved to empty" entries
// collapse to absence here.
func writeWorkbook(wb *models.Workbook, st *store.Store, outputPath string) error {
	out := excelize.NewFile()
	defer out.Close()

	for i, sh := range wb.Sheets {
		if i == 0 {
			if sh.Name != "Sheet1" {
				if err := out.SetSheetName("Sheet1", sh.Name); err != nil {
					return err
				}
			}
		} else {
			if _, err := out.NewSheet(sh.Name); err != nil {
				return err
			}
		}

		for _, c := range sh.Cells {
			raw := c.Value
			if c.IsFormula() {
				v, ok := st.Get(c.Sheet, c.Coord)
				if !ok {
					continue
				}
				raw = v
			}
			if raw == "" {
				continue
			}
			if err := out.SetCellValue(sh.Name, c.Coord, models.ParseValue(raw)); err != nil {
				return err
			}
		}
	}

	return out.SaveAs(outputPath)
}
