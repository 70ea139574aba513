package pipeline

import (
	"linedash/domain/dataset"
	"linedash/domain/selection"
)

// Filter keeps the rows whose value in every selected column is a member of
// that column's set. Null cells never match, so an empty set or a column the
// table lacks yields no rows. Row order is preserved and the returned table
// shares rows with t.
func Filter(t *dataset.Table, sel selection.Selection) *dataset.Table {
	rows := make([]dataset.Row, 0, t.Len())
	for _, row := range t.Rows {
		if matches(row, sel) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

func matches(row dataset.Row, sel selection.Selection) bool {
	for col, set := range sel {
		v := row.Get(col)
		if v.IsNull() || !set.Has(v.String()) {
			return false
		}
	}
	return true
}
