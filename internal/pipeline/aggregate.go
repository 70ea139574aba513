package pipeline

import (
	"sort"
	"strings"

	"linedash/domain/dataset"
)

// UnusedStatus is the usage-status literal that flags a line with no traffic.
const UnusedStatus = "sem uso"

// Count is one category of a summary.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary is an ordered list of category counts.
type Summary []Count

// Total sums the counts.
func (s Summary) Total() int {
	total := 0
	for _, c := range s {
		total += c.Count
	}
	return total
}

// Labels returns the category values in order.
func (s Summary) Labels() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Value
	}
	return out
}

// Counts returns the counts in order.
func (s Summary) Counts() []int {
	out := make([]int, len(s))
	for i, c := range s {
		out[i] = c.Count
	}
	return out
}

// ValueCounts counts each non-null value of column, highest count first.
// Ties keep first-occurrence order.
func ValueCounts(t *dataset.Table, column string) Summary {
	s := firstSeenCounts(t, column)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Count > s[j].Count })
	return s
}

// TopN keeps the n largest categories (ties as in ValueCounts) and returns
// them in ascending count order, so a horizontal bar chart drawn bottom-up
// puts the largest bar on top.
func TopN(s Summary, n int) Summary {
	if n <= 0 {
		return Summary{}
	}
	desc := make(Summary, len(s))
	copy(desc, s)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Count > desc[j].Count })
	if len(desc) > n {
		desc = desc[:n]
	}
	out := make(Summary, len(desc))
	for i, c := range desc {
		out[len(desc)-1-i] = c
	}
	return out
}

// GroupCounts counts each non-null value of column ordered by value, the way
// a group-by over the key presents it.
func GroupCounts(t *dataset.Table, column string) Summary {
	s := firstSeenCounts(t, column)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Value < s[j].Value })
	return s
}

// MatchStatus keeps rows whose column equals literal, ignoring case.
func MatchStatus(t *dataset.Table, column, literal string) *dataset.Table {
	rows := make([]dataset.Row, 0)
	for _, row := range t.Rows {
		v := row.Get(column)
		if v.IsNull() {
			continue
		}
		if strings.EqualFold(v.String(), literal) {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows)
}

func firstSeenCounts(t *dataset.Table, column string) Summary {
	index := make(map[string]int)
	s := make(Summary, 0)
	for _, row := range t.Rows {
		v := row.Get(column)
		if v.IsNull() {
			continue
		}
		key := v.String()
		if i, ok := index[key]; ok {
			s[i].Count++
			continue
		}
		index[key] = len(s)
		s = append(s, Count{Value: key, Count: 1})
	}
	return s
}
