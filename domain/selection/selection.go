// Package selection holds the user's per-column filter choices.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"linedash/domain/core"
	"linedash/internal/errors"
)

// Set is a set of allowed string values for one column.
type Set map[string]struct{}

// NewSet builds a set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Selection maps a filterable column to its selected values. A column that is
// present with an empty set selects nothing.
type Selection map[string]Set

// Clone returns a deep copy so sessions never share sets.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for col, set := range s {
		cp := make(Set, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out[col] = cp
	}
	return out
}

// Columns returns the selected column names in ascending order.
func (s Selection) Columns() []string {
	cols := make([]string, 0, len(s))
	for c := range s {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Values returns the sorted selected values for column.
func (s Selection) Values(column string) []string {
	return s[column].Sorted()
}

// IsSelected reports whether value is selected for column.
func (s Selection) IsSelected(column, value string) bool {
	return s[column].Has(value)
}

// With returns a copy where column selects exactly values.
func (s Selection) With(column string, values ...string) Selection {
	out := s.Clone()
	out[column] = NewSet(values...)
	return out
}

// Restrict intersects every column with the allowed universe and drops
// columns the universe does not know.
func (s Selection) Restrict(universe Selection) Selection {
	out := make(Selection, len(s))
	for col, set := range s {
		allowed, ok := universe[col]
		if !ok {
			continue
		}
		kept := make(Set, len(set))
		for v := range set {
			if allowed.Has(v) {
				kept[v] = struct{}{}
			}
		}
		out[col] = kept
	}
	return out
}

// Fingerprint is a stable hash of the selection, used to key rendered charts.
func (s Selection) Fingerprint() core.Hash {
	var b strings.Builder
	for _, col := range s.Columns() {
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(strings.Join(s.Values(col), "\x1f"))
		b.WriteByte('\x1e')
	}
	return core.NewHash([]byte(b.String()))
}

// ParseAssignments reads COLUMN=v1,v2 pairs (as given on the command line) and
// overlays them on base. Repeating a column adds to its values. An assignment
// with nothing after '=' selects nothing for that column.
func ParseAssignments(base Selection, assignments []string) (Selection, error) {
	out := base.Clone()
	seen := make(map[string]bool)
	for _, a := range assignments {
		col, raw, ok := strings.Cut(a, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid filter %q, expected COLUMN=value[,value...]", a))
		}
		if !seen[col] {
			out[col] = Set{}
			seen[col] = true
		}
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				out[col][v] = struct{}{}
			}
		}
	}
	return out, nil
}
