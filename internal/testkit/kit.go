// Package testkit provides fixture tables and workbook files for tests and
// local demos.
package testkit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"linedash/domain/dataset"
)

// LineRow is one mobile line. Empty fields become null cells.
type LineRow struct {
	Operator string
	Role     string
	Group    string
	DataTier string
	Usage    string
}

// LinesTable builds a lines table with the five filter columns plus LINHA.
func LinesTable(rows ...LineRow) *dataset.Table {
	columns := append([]string{"LINHA"}, dataset.FilterColumns...)
	out := make([]dataset.Row, len(rows))
	for i, r := range rows {
		out[i] = dataset.Row{
			"LINHA":              dataset.ParseCell(fmt.Sprintf("(11) 9%04d-%04d", 1000+i, 2000+i)),
			dataset.ColOperator: dataset.ParseCell(r.Operator),
			dataset.ColRole:     dataset.ParseCell(r.Role),
			dataset.ColGroup:    dataset.ParseCell(r.Group),
			dataset.ColDataTier: dataset.ParseCell(r.DataTier),
			dataset.ColUsage:    dataset.ParseCell(r.Usage),
		}
	}
	return dataset.NewTable("linhas", columns, out)
}

// SampleLines is a small, hand-checked lines table with repeated categories.
func SampleLines() *dataset.Table {
	return LinesTable(
		LineRow{"VIVO", "GERENTE", "URBANO", "5GB", "Em uso"},
		LineRow{"VIVO", "FRENTISTA", "RODOVIA", "2GB", "Sem uso"},
		LineRow{"CLARO", "GERENTE", "URBANO", "5GB", "Em uso"},
		LineRow{"CLARO", "SUPERVISOR", "URBANO", "10GB", "Sem uso"},
		LineRow{"TIM", "FRENTISTA", "RODOVIA", "2GB", "Em uso"},
		LineRow{"VIVO", "GERENTE", "RODOVIA", "5GB", "SEM USO"},
		LineRow{"TIM", "GERENTE", "URBANO", "5GB", "Em uso"},
		LineRow{"VIVO", "SUPERVISOR", "URBANO", "10GB", "Em uso"},
		LineRow{"CLARO", "FRENTISTA", "RODOVIA", "2GB", "Sem uso"},
		LineRow{"VIVO", "GERENTE", "URBANO", "5GB", "Em uso"},
	)
}

// SampleStations builds the underused-station table, optionally without STATUS.
func SampleStations(withStatus bool) *dataset.Table {
	columns := []string{"UNIDADE", "CIDADE", "VENDAS_AGOSTO"}
	if withStatus {
		columns = append(columns, dataset.ColStationStatus)
	}
	records := [][]string{
		{"Posto Km 12", "Campinas", "650000", "Sem número"},
		{"Posto Km 48", "Jundiaí", "820000", "Com número"},
		{"Posto Km 97", "Limeira", "710000", "Sem número"},
		{"Posto Km 130", "Rio Claro", "540000", "Sem número"},
	}
	rows := make([]dataset.Row, len(records))
	for i, rec := range records {
		row := dataset.Row{}
		for j, col := range columns {
			row[col] = dataset.ParseCell(rec[j])
		}
		rows[i] = row
	}
	return dataset.NewTable("unidades_rodovia", columns, rows)
}

// WriteWorkbook writes header and records to a single-sheet xlsx file.
func WriteWorkbook(path, sheet string, header []string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	all := append([][]string{header}, records...)
	for i, rec := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// WriteTableWorkbook writes t to path as a workbook, nulls as blank cells.
func WriteTableWorkbook(path string, t *dataset.Table) error {
	return WriteWorkbook(path, "Planilha1", t.Columns, t.Records())
}

// WriteSampleWorkbooks writes the sample lines and stations workbooks into dir
// and returns their paths.
func WriteSampleWorkbooks(dir string, withStatus bool) (linesPath, stationsPath string, err error) {
	linesPath = filepath.Join(dir, "TELEFONIA_MOVEL.xlsx")
	stationsPath = filepath.Join(dir, "UNIDADES_RODOVIA_SEM_USO.xlsx")

	if err := WriteTableWorkbook(linesPath, SampleLines()); err != nil {
		return "", "", err
	}
	if err := WriteTableWorkbook(stationsPath, SampleStations(withStatus)); err != nil {
		return "", "", err
	}
	log.Printf("[TestKit] Sample workbooks written to %s", dir)
	return linesPath, stationsPath, nil
}
