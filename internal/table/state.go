package table

// State is the local UI state of one table: search text, column filters and the page.
type State struct {
	Search  string
	Filters map[string]string
	Page    int
	Size    int
}

// NewState returns a State on the first page with the default page size.
func NewState() State {
	return State{Filters: map[string]string{}, Size: DefaultPageSize}
}

// SetSearch replaces the search text and goes back to the first page.
func (s *State) SetSearch(query string) {
	s.Search = query
	s.Page = 0
}

// SetFilter sets the filter of one column. An empty value clears it.
func (s *State) SetFilter(key, value string) {
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	if value == "" {
		delete(s.Filters, key)
	} else {
		s.Filters[key] = value
	}
	s.Page = 0
}

// ClearFilters removes every column filter.
func (s *State) ClearFilters() {
	s.Filters = map[string]string{}
	s.Page = 0
}

// SetPage moves to page (0-based). Negative pages are ignored.
func (s *State) SetPage(page int) {
	if page < 0 {
		return
	}
	s.Page = page
}

// SetPageSize changes the page size and goes back to the first page.
func (s *State) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.Size = size
	s.Page = 0
}
