package dataset

import (
	"fmt"
	"strings"

	"linedash/internal/errors"
)

// Schema lists the columns a workbook must and may carry.
type Schema struct {
	Name     string
	Required []string
	Optional []string
}

// LinesSchema describes TELEFONIA_MOVEL: every filter column is required.
var LinesSchema = Schema{
	Name:     "linhas",
	Required: FilterColumns,
}

// StationsSchema describes UNIDADES_RODOVIA_SEM_USO. STATUS only feeds the
// status pie, so its absence degrades that section instead of failing.
var StationsSchema = Schema{
	Name:     "unidades_rodovia",
	Optional: []string{ColStationStatus},
}

// Validate checks column presence only.
func (s Schema) Validate(t *Table) error {
	var missing []string
	for _, col := range s.Required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.SchemaError(fmt.Sprintf("dataset %s is missing required column(s): %s",
			s.Name, strings.Join(missing, ", ")))
	}
	return nil
}

// MissingOptional returns the optional columns absent from t.
func (s Schema) MissingOptional(t *Table) []string {
	var missing []string
	for _, col := range s.Optional {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
