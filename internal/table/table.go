// Package table turns a list of rows into a searchable, filterable, paginated view.
//
// It is pure presentation over caller-supplied data and never performs I/O. The same view is
// computed by the REST backend for list queries and by the console when printing tables.
package table

import (
	"strings"
	"unicode/utf8"
)

const (
	// SelectThreshold is the distinct value count below which a column gets a closed-set filter.
	SelectThreshold = 20
	// TruncateAt is the rune length above which a cell is truncated for display.
	TruncateAt = 20
	// DefaultPageSize is used when no positive page size is set.
	DefaultPageSize = 10
	// Ellipsis marks a truncated cell.
	Ellipsis = "…"
)

// Row is one record keyed by field name.
type Row map[string]any

// Column describes one displayed field. Render, when set, replaces the default formatting.
type Column struct {
	Key    string
	Label  string
	Render func(v any) string
}

// Text returns the display text of the column for row.
func (c Column) Text(row Row) string {
	v := row[c.Key]
	if c.Render != nil {
		return c.Render(v)
	}
	return Format(v)
}

// Cell is a rendered value. Full keeps the untruncated text so it can be expanded.
type Cell struct {
	Display   string `json:"display"`
	Full      string `json:"full"`
	Truncated bool   `json:"truncated"`
}

// View is the result of applying a State to a row set.
type View struct {
	Columns   []Column
	Rows      []Row
	Cells     [][]Cell
	Total     int
	Page      int
	Size      int
	PageCount int
	Filters   []Filter
}

// Apply searches, filters and paginates rows. Filter kinds and options are derived from the
// full row set so narrowing one filter never hides the options of another.
func Apply(rows []Row, columns []Column, st State) View {
	size := st.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := st.Page
	if page < 0 {
		page = 0
	}

	filters := DeriveFilters(rows, columns)
	active := activeFilters(rows, columns, filters, st.Filters)
	for i := range filters {
		filters[i].Value = st.Filters[filters[i].Key]
	}

	matched := Search(rows, st.Search)
	for _, f := range active {
		matched = f.Narrow(matched)
	}

	pageRows := Paginate(matched, page, size)
	cells := make([][]Cell, len(pageRows))
	for i, row := range pageRows {
		cells[i] = make([]Cell, len(columns))
		for j, col := range columns {
			cells[i][j] = NewCell(col.Text(row))
		}
	}

	return View{
		Columns:   columns,
		Rows:      pageRows,
		Cells:     cells,
		Total:     len(matched),
		Page:      page,
		Size:      size,
		PageCount: PageCount(len(matched), size),
		Filters:   filters,
	}
}

// activeFilters resolves the state's filter values. Keys that are not displayed columns still
// filter, using the default formatting of the field.
func activeFilters(rows []Row, columns []Column, derived []Filter, values map[string]string) []Filter {
	var out []Filter
	for key, value := range values {
		if value == "" {
			continue
		}
		f, ok := findFilter(derived, key)
		if !ok {
			f = deriveFilter(rows, Column{Key: key, Label: key})
		}
		f.Value = value
		out = append(out, f)
	}
	return out
}

func findFilter(filters []Filter, key string) (Filter, bool) {
	for _, f := range filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter{}, false
}

// Search keeps the rows where query occurs, ignoring case, in at least one string field.
// HTML values match on their text only. An empty query keeps every row.
func Search(rows []Row, query string) []Row {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if rowContains(row, q) {
			out = append(out, row)
		}
	}
	return out
}

func rowContains(row Row, lowered string) bool {
	for _, v := range row {
		s, ok := v.(string)
		if !ok {
			continue
		}
		// rich text is searched as the words it renders, not its markup
		if strings.Contains(s, "<") {
			s = HTMLText(s)
		}
		if strings.Contains(strings.ToLower(s), lowered) {
			return true
		}
	}
	return false
}

// Paginate returns rows[page*size : page*size+size], clamped to the slice bounds.
func Paginate(rows []Row, page, size int) []Row {
	if size <= 0 || page < 0 {
		return nil
	}
	if len(rows) == 0 || page > (len(rows)-1)/size {
		return []Row{}
	}
	start := page * size
	end := len(rows)
	if size < end-start {
		end = start + size
	}
	return rows[start:end]
}

// PageCount is the number of pages needed for total rows.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// NewCell truncates s to TruncateAt runes.
func NewCell(s string) Cell {
	display, truncated := Truncate(s, TruncateAt)
	return Cell{Display: display, Full: s, Truncated: truncated}
}

// Truncate shortens s to n runes followed by Ellipsis.
func Truncate(s string, n int) (string, bool) {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:n]) + Ellipsis, true
}
