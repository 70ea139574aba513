package excel

import "linedash/domain/dataset"

// SourceConfig describes one workbook to load
type SourceConfig struct {
	FilePath  string         `json:"file_path"`
	SheetName string         `json:"sheet_name"` // empty selects the first sheet
	Schema    dataset.Schema `json:"-"`
}

// LinesSource returns the source config for the mobile-lines workbook
func LinesSource(path, sheet string) SourceConfig {
	return SourceConfig{FilePath: path, SheetName: sheet, Schema: dataset.LinesSchema}
}

// StationsSource returns the source config for the underused-stations workbook
func StationsSource(path, sheet string) SourceConfig {
	return SourceConfig{FilePath: path, SheetName: sheet, Schema: dataset.StationsSchema}
}
