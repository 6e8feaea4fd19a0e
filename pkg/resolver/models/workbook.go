package models

// Workbook is an ordered snapshot of the source workbook. Sheet order is
// preserved exactly so the output workbook can mirror the input layout.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string
	// Sheets holds the sheet snapshots in workbook order.
	Sheets []Sheet
}
