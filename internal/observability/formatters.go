// Package observability provides formatted summaries for the staffdesk console.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/staffdesk/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for console summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits line to the inner box width, cutting long lines.
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		runes := []rune(line)
		return string(runes[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

// PrintEmployee outputs the signed-in employee.
func (p *Printer) PrintEmployee(e *types.Employee) {
	if e == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:    %s\n", e.Name))
	sb.WriteString(fmt.Sprintf("Email:   %s\n", e.Email))
	sb.WriteString(fmt.Sprintf("Phone:   %s\n", e.Phone))
	sb.WriteString(fmt.Sprintf("Roles:   %s\n", strings.Join(e.Roles, ", ")))
	sb.WriteString(fmt.Sprintf("Status:  %s", e.Status))

	p.printBox("SIGNED IN", sb.String())
}

// PrintImportResult outputs the outcome of a timesheet import, listing the first skipped lines.
func (p *Printer) PrintImportResult(result *types.ImportResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Imported %d timesheet line(s)\n", result.Imported))
	if len(result.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("Skipped %d line(s):\n", len(result.Skipped)))
		count := min(len(result.Skipped), maxItemsToShow)
		for _, issue := range result.Skipped[:count] {
			sb.WriteString(fmt.Sprintf("  line %d: %s\n", issue.Line, issue.Message))
		}
		if len(result.Skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more", len(result.Skipped)-maxItemsToShow))
		}
	}

	p.printBox("TIMESHEET IMPORT", sb.String())
}

// PrintAttachment outputs a stored file.
func (p *Printer) PrintAttachment(a *types.Attachment) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:      %s\n", a.ID))
	sb.WriteString(fmt.Sprintf("Owner:   %s %s\n", a.OwnerType, a.OwnerID))
	sb.WriteString(fmt.Sprintf("File:    %s\n", a.FileName))
	sb.WriteString(fmt.Sprintf("Type:    %s\n", a.ContentType))
	sb.WriteString(fmt.Sprintf("Size:    %d bytes", a.Size))

	p.printBox("UPLOADED", sb.String())
}
