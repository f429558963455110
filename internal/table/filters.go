package table

import (
	"sort"
	"strings"
)

// FilterKind selects how a column filter is offered and matched.
type FilterKind string

const (
	// FilterSelect offers the distinct values and matches exactly.
	FilterSelect FilterKind = "select"
	// FilterText accepts free text and matches by case-insensitive containment.
	FilterText FilterKind = "text"
)

// Filter is the filter of one column.
type Filter struct {
	Key     string     `json:"key"`
	Label   string     `json:"label"`
	Kind    FilterKind `json:"kind"`
	Options []string   `json:"options,omitempty"`
	Value   string     `json:"value,omitempty"`

	column Column
}

// DeriveFilters builds one filter per column from the distinct values found in rows.
func DeriveFilters(rows []Row, columns []Column) []Filter {
	filters := make([]Filter, 0, len(columns))
	for _, col := range columns {
		filters = append(filters, deriveFilter(rows, col))
	}
	return filters
}

func deriveFilter(rows []Row, col Column) Filter {
	f := Filter{Key: col.Key, Label: col.Label, Kind: FilterText, column: col}
	values := Distinct(rows, col)
	if len(values) < SelectThreshold {
		f.Kind = FilterSelect
		f.Options = values
	}
	return f
}

// Distinct returns the sorted non-empty display values of col across rows.
func Distinct(rows []Row, col Column) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		v := col.Text(row)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Matches reports whether row passes the filter. A filter without a value passes every row.
func (f Filter) Matches(row Row) bool {
	if f.Value == "" {
		return true
	}
	text := f.column.Text(row)
	if f.Kind == FilterSelect {
		return text == f.Value
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(f.Value))
}

// Narrow keeps the rows that pass the filter.
func (f Filter) Narrow(rows []Row) []Row {
	if f.Value == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}
