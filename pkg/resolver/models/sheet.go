package models

// Sheet groups the populated cells of one worksheet in row-major order.
type Sheet struct {
	// Name is the worksheet name, unique within the workbook.
	Name string
	// Cells contains the populated cells, ordered by row then column.
	Cells []Cell
}
