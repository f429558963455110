package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/client"
	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/views"
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "Print a searchable, filterable page of records",
	Long: `Print one page of a resource as a table.

Search matches any text field ignoring case. Filters are key=value pairs; columns with few
distinct values match exactly, the rest by containment. Long cells are truncated unless --wide
is set; use "show --field" to read one value in full.`,
	Example: `  staffdesk list submissions --search ali --filter interview_status=pending
  staffdesk list requirements --page 2 --size 20 --filters`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Print one record",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

var (
	listSearch      string
	listFilters     []string
	listPage        int
	listSize        int
	listWide        bool
	listShowFilters bool
	listRemote      bool
	showField       string
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text to look for")
	listCmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "Column filter as key=value (repeatable)")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&listSize, "size", 0, "Rows per page (default page_size from config)")
	listCmd.Flags().BoolVar(&listWide, "wide", false, "Do not truncate long cells")
	listCmd.Flags().BoolVar(&listShowFilters, "filters", false, "Also print the available filters")
	listCmd.Flags().BoolVar(&listRemote, "remote", false, "Let the server search and paginate")

	showCmd.Flags().StringVar(&showField, "field", "", "Print only this field, untruncated")

	rootCmd.AddCommand(listCmd, showCmd)
}

// parseFilters turns key=value pairs into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", p)
		}
		out[key] = value
	}
	return out, nil
}

func runList(cmd *cobra.Command, args []string) error {
	resource := args[0]
	if err := checkResource(resource); err != nil {
		return err
	}
	if listPage < 1 {
		return fmt.Errorf("--page must be 1 or more")
	}
	filters, err := parseFilters(listFilters)
	if err != nil {
		return err
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}

	size := listSize
	if size <= 0 {
		size = con.cfg.PageSize
	}
	columns := views.Columns(resource)

	var view table.View
	if listRemote {
		page, err := con.client.List(cmd.Context(), resource, client.Query{
			Search: listSearch, Filters: filters, Page: listPage - 1, Size: size,
		})
		if err != nil {
			return err
		}
		view = table.View{
			Columns: columns, Rows: page.Items, Cells: cellsOf(page.Items, columns),
			Total: page.Total, Page: page.Page, Size: page.Size, PageCount: page.PageCount,
			Filters: page.Filters,
		}
	} else {
		page, err := con.client.List(cmd.Context(), resource, client.Query{})
		if err != nil {
			return err
		}
		st := table.NewState()
		st.SetPageSize(size)
		st.SetSearch(listSearch)
		for k, v := range filters {
			st.SetFilter(k, v)
		}
		st.SetPage(listPage - 1)
		view = table.Apply(page.Items, columns, st)
	}

	out := cmd.OutOrStdout()
	renderView(out, view, listWide)
	if listShowFilters {
		renderFilters(out, view.Filters)
	}
	return nil
}

func cellsOf(rows []table.Row, columns []table.Column) [][]table.Cell {
	cells := make([][]table.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]table.Cell, len(columns))
		for j, col := range columns {
			cells[i][j] = table.NewCell(col.Text(row))
		}
	}
	return cells
}

func renderView(w io.Writer, view table.View, wide bool) {
	if view.Total == 0 {
		_, _ = fmt.Fprintln(w, "No records found")
		return
	}

	tw := newTabWriter(w)
	header := []string{"ID"}
	for _, c := range view.Columns {
		header = append(header, strings.ToUpper(c.Label))
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range view.Rows {
		line := []string{table.Format(row["id"])}
		for _, cell := range view.Cells[i] {
			text := cell.Display
			if wide {
				text = cell.Full
			}
			line = append(line, oneLine(text))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(line, "\t"))
	}
	_ = tw.Flush()

	if len(view.Rows) == 0 {
		_, _ = fmt.Fprintf(w, "Page %d is past the last page (%d)\n", view.Page+1, view.PageCount)
		return
	}
	_, _ = fmt.Fprintf(w, "Page %d of %d, %d matching records\n", view.Page+1, view.PageCount, view.Total)
}

func renderFilters(w io.Writer, filters []table.Filter) {
	_, _ = fmt.Fprintln(w, "Filters:")
	for _, f := range filters {
		switch f.Kind {
		case table.FilterSelect:
			_, _ = fmt.Fprintf(w, "  %s (%s): %s\n", f.Key, f.Label, strings.Join(f.Options, " | "))
		default:
			_, _ = fmt.Fprintf(w, "  %s (%s): text\n", f.Key, f.Label)
		}
	}
}

// oneLine keeps tabwriter columns aligned when a value spans lines.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func runShow(cmd *cobra.Command, args []string) error {
	resource := args[0]
	if err := checkResource(resource); err != nil {
		return err
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[1], err)
	}
	con, err := loadConsole()
	if err != nil {
		return err
	}
	row, err := con.client.Get(cmd.Context(), resource, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showField != "" {
		if _, ok := row[showField]; !ok {
			return fmt.Errorf("%s has no field %q", resource, showField)
		}
		_, _ = fmt.Fprintln(out, fieldText(resource, showField, row))
		return nil
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := newTabWriter(out)
	for _, k := range keys {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", k, oneLine(fieldText(resource, k, row)))
	}
	return tw.Flush()
}

// fieldText formats a field the way the list shows it, without truncation.
func fieldText(resource, key string, row table.Row) string {
	if col, ok := views.Column(resource, key); ok {
		return col.Text(row)
	}
	return table.Format(row[key])
}
