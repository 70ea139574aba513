package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Column names of the mobile-lines and station workbooks.
const (
	ColOperator      = "OPERADORA"
	ColRole          = "FUNCAO"
	ColGroup         = "GRUPO"
	ColDataTier      = "DADOS"
	ColUsage         = "AGOSTO"
	ColStationStatus = "STATUS"
)

// FilterColumns are the lines columns exposed as sidebar selectors, in display order.
var FilterColumns = []string{ColOperator, ColRole, ColGroup, ColDataTier, ColUsage}

// ValueKind tells whether a cell is empty, text or numeric.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "null"
	}
}

// Value is a single cell. Text holds the displayed form used for filtering and
// grouping; it is empty for nulls and never compared in that case.
type Value struct {
	Kind ValueKind `json:"kind"`
	Text string    `json:"text"`
	Num  float64   `json:"num,omitempty"`
}

// Null returns the missing value.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewString wraps a text cell. Empty text is still a string, not a null.
func NewString(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// NewNumber wraps a numeric cell, keeping its spreadsheet rendering as text.
func NewNumber(n float64, text string) Value {
	if text == "" {
		text = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return Value{Kind: KindNumber, Text: text, Num: n}
}

// ParseCell converts raw spreadsheet text into a Value. Blank cells are null;
// literal words like "nan" or "None" stay ordinary strings.
func ParseCell(raw string) Value {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Null()
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NewNumber(n, text)
	}
	return NewString(text)
}

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String returns the canonical string form ("" for nulls).
func (v Value) String() string {
	if v.IsNull() {
		return ""
	}
	return v.Text
}

// Row maps column name to cell value. Absent keys read as null.
type Row map[string]Value

// Get returns the value for column, null when absent.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Table is an ordered, immutable set of rows with a fixed column list.
// Filtered tables share Row maps with their parent.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates a table; rows are used as given.
func NewTable(name string, columns []string, rows []Row) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Value returns the cell at row i, column; null for unknown columns.
func (t *Table) Value(i int, column string) Value {
	return t.Rows[i].Get(column)
}

// WithRows returns a table with the same header over a subset of rows.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// Project keeps only the given columns, in the given order. Columns not in
// the header are skipped.
func (t *Table) Project(columns ...string) *Table {
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if t.HasColumn(c) {
			kept = append(kept, c)
		}
	}
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		pr := make(Row, len(kept))
		for _, c := range kept {
			if v, ok := r[c]; ok {
				pr[c] = v
			}
		}
		rows[i] = pr
	}
	return &Table{Name: t.Name, Columns: kept, Rows: rows}
}

// Records renders the table as string cells, header order, for tables and exports.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = r.Get(c).String()
		}
		out[i] = rec
	}
	return out
}
