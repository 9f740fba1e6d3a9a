package sheet

// Reader reads tabular files into rows of cells. The first row is the
// header.
type Reader interface {
	// Read returns rows of a CSV file or of the first sheet of an Excel
	// workbook.
	Read(path string) ([][]string, error)

	// ReadSheet returns rows of a named sheet of an Excel workbook.
	ReadSheet(path, sheet string) ([][]string, error)
}
