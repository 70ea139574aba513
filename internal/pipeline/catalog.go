// Package pipeline turns a loaded table and a filter selection into the
// filtered rows and value-count summaries the dashboard draws.
// Every function here is pure; tables are never mutated.
package pipeline

import (
	"fmt"
	"sort"

	"linedash/domain/dataset"
	"linedash/domain/selection"
	"linedash/internal/errors"
)

// DistinctValues returns the sorted, de-duplicated string forms of the
// non-null cells of column.
func DistinctValues(t *dataset.Table, column string) ([]string, error) {
	if !t.HasColumn(column) {
		return nil, errors.SchemaError(fmt.Sprintf("column %s not found in dataset %s", column, t.Name))
	}
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range t.Rows {
		v := row.Get(column)
		if v.IsNull() {
			continue
		}
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		values = append(values, s)
	}
	sort.Strings(values)
	return values, nil
}

// Catalog is the universe of selectable options per filterable column,
// computed once from the full table.
type Catalog struct {
	columns []string
	options map[string][]string
}

// BuildCatalog computes DistinctValues for each column.
func BuildCatalog(t *dataset.Table, columns ...string) (Catalog, error) {
	c := Catalog{
		columns: make([]string, 0, len(columns)),
		options: make(map[string][]string, len(columns)),
	}
	for _, col := range columns {
		values, err := DistinctValues(t, col)
		if err != nil {
			return Catalog{}, err
		}
		c.columns = append(c.columns, col)
		c.options[col] = values
	}
	return c, nil
}

// Columns returns the catalogued columns in build order.
func (c Catalog) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Has reports whether column was catalogued.
func (c Catalog) Has(column string) bool {
	_, ok := c.options[column]
	return ok
}

// Options returns the selectable values of column.
func (c Catalog) Options(column string) []string {
	return c.options[column]
}

// FullSelection selects every option of every column: the no-filter default.
func (c Catalog) FullSelection() selection.Selection {
	sel := make(selection.Selection, len(c.columns))
	for _, col := range c.columns {
		sel[col] = selection.NewSet(c.options[col]...)
	}
	return sel
}
