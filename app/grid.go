package app

import (
	"fmt"
	"sort"
	"strings"

	"linedash/domain/dataset"
	"linedash/internal/errors"
)

// SortDirection orders the data grid
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// GridQuery selects one page of the data grid
type GridQuery struct {
	Page      int           `form:"page" json:"page"`
	PageSize  int           `form:"page_size" json:"page_size"`
	SortBy    string        `form:"sort" json:"sort"`
	Direction SortDirection `form:"dir" json:"dir"`
}

// GridPage is one rendered page of a table
type GridPage struct {
	Columns    []string      `json:"columns"`
	Records    [][]string    `json:"records"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalRows  int           `json:"total_rows"`
	TotalPages int           `json:"total_pages"`
	SortBy     string        `json:"sort,omitempty"`
	Direction  SortDirection `json:"dir,omitempty"`
}

// HasPrev reports whether an earlier page exists
func (p *GridPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists
func (p *GridPage) HasNext() bool { return p.Page < p.TotalPages }

// Grid sorts and pages t. Out-of-range pages are clamped; an unknown sort
// column is rejected. Cells compare numerically when both are numbers and
// nulls always sort last; ties keep table order.
func Grid(t *dataset.Table, q GridQuery) (*GridPage, error) {
	if q.PageSize <= 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("page size must be positive, got %d", q.PageSize))
	}
	dir := SortDirection(strings.ToLower(string(q.Direction)))
	if dir == "" {
		dir = SortAsc
	}
	if dir != SortAsc && dir != SortDesc {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown sort direction %q", q.Direction))
	}

	rows := t.Rows
	if q.SortBy != "" {
		if !t.HasColumn(q.SortBy) {
			return nil, errors.InvalidInput(fmt.Sprintf("cannot sort by unknown column %q", q.SortBy))
		}
		rows = sortedRows(t.Rows, q.SortBy, dir == SortDesc)
	}

	total := len(rows)
	pages := (total + q.PageSize - 1) / q.PageSize
	if pages == 0 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if end > total {
		end = total
	}

	pageTable := t.WithRows(rows[start:end])
	return &GridPage{
		Columns:    t.Columns,
		Records:    pageTable.Records(),
		Page:       page,
		PageSize:   q.PageSize,
		TotalRows:  total,
		TotalPages: pages,
		SortBy:     q.SortBy,
		Direction:  dir,
	}, nil
}

func sortedRows(rows []dataset.Row, column string, desc bool) []dataset.Row {
	out := make([]dataset.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Get(column), out[j].Get(column)
		if a.IsNull() || b.IsNull() {
			return !a.IsNull() && b.IsNull()
		}
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareValues(a, b dataset.Value) int {
	if a.Kind == dataset.KindNumber && b.Kind == dataset.KindNumber {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}
