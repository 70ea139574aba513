package excel

// RawSheet is a sheet as read from disk: the trimmed header row and the raw
// string cells of every data row. Rows may be shorter than the header.
type RawSheet struct {
	Sheet   string     // sheet name, empty for CSV
	Headers []string   // Column headers
	Rows    [][]string // Data rows
}
