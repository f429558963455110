// Package export writes records and table views as CSV or XLSX, and reads timesheet
// spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// WriteCSV writes records as CSV using their `csv` struct tags. The header row is
// written even when records is empty.
func WriteCSV[T any](w io.Writer, records []T) error {
	if records == nil {
		records = []T{}
	}
	var buf bytes.Buffer
	if err := gocsv.Marshal(&records, &buf); err != nil {
		return fmt.Errorf("failed to marshal CSV: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
