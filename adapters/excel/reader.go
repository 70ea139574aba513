package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"linedash/domain/dataset"
	"linedash/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	sheetName string
}

// NewDataReader creates a reader for filePath. sheetName is ignored for CSV
// files; when empty the workbook's first sheet is read.
func NewDataReader(filePath, sheetName string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheetName: sheetName}
}

// LoadTable reads the configured source and checks its schema.
func LoadTable(src SourceConfig) (*dataset.Table, error) {
	table, err := NewDataReader(src.FilePath, src.SheetName).ReadTable(src.Schema.Name)
	if err != nil {
		return nil, err
	}
	if err := src.Schema.Validate(table); err != nil {
		return nil, err
	}
	if missing := src.Schema.MissingOptional(table); len(missing) > 0 {
		log.Printf("[DataReader] %s has no optional column(s) %s", src.FilePath, strings.Join(missing, ", "))
	}
	return table, nil
}

// ReadTable reads the file and converts it into a dataset table named name.
func (r *DataReader) ReadTable(name string) (*dataset.Table, error) {
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return toTable(name, raw), nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*RawSheet, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.LoadError(r.filePath, err)
	}

	var rows [][]string
	var sheet string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		sheet, rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, errors.LoadError(r.filePath, err)
	}

	raw, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	raw.Sheet = sheet
	return raw, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows() (string, [][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.sheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return sheet, rows, nil
}

// readCSVRows reads CSV data, allowing ragged rows
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// processRows splits the header from the data rows. Fully blank rows are
// skipped the way spreadsheet tools do; a file with no header is a schema error.
func (r *DataReader) processRows(rows [][]string) (*RawSheet, error) {
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, errors.SchemaError(fmt.Sprintf("%s has no header row", r.filePath))
	}

	headers := normalizeHeaders(rows[0])

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		dataRows = append(dataRows, row)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawSheet{Headers: headers, Rows: dataRows}, nil
}

// normalizeHeaders trims header cells, names blank ones "Unnamed: <index>" and
// suffixes repeats with ".1", ".2", ... so every column is addressable.
func normalizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, cell := range row {
		h := strings.TrimSpace(cell)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// toTable converts raw cells into typed values. Cells past the end of a short
// row are null; cells past the header are dropped.
func toTable(name string, raw *RawSheet) *dataset.Table {
	rows := make([]dataset.Row, len(raw.Rows))
	for i, rec := range raw.Rows {
		row := make(dataset.Row, len(raw.Headers))
		for j, h := range raw.Headers {
			if j < len(rec) {
				row[h] = dataset.ParseCell(rec[j])
			} else {
				row[h] = dataset.Null()
			}
		}
		rows[i] = row
	}
	if name == "" {
		name = raw.Sheet
	}
	return dataset.NewTable(name, raw.Headers, rows)
}
