package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/staffdesk/internal/types"
)

// TimesheetHeaders are the recognised column headers of a timesheet sheet. Column order
// is free; employee_email and date are required.
var TimesheetHeaders = []string{"employee_email", "date", "hours", "status", "notes"}

// TimesheetLine is one parsed spreadsheet line. EmployeeID is left for the caller to
// resolve from EmployeeEmail.
type TimesheetLine struct {
	Line          int
	EmployeeEmail string
	Timesheet     types.Timesheet
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseTimesheets reads the first sheet of an XLSX workbook. Lines that cannot be
// parsed are reported as issues and skipped; an error is returned only when the
// workbook itself is unusable.
func ParseTimesheets(r io.Reader) ([]TimesheetLine, []types.ImportIssue, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("no worksheet found")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("worksheet is empty")
	}

	index := map[string]int{}
	for i, h := range rows[0] {
		index[normalizeHeader(h)] = i
	}
	for _, required := range []string{"employee_email", "date"} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", required)
		}
	}

	var lines []TimesheetLine
	var issues []types.ImportIssue
	for i, row := range rows[1:] {
		lineNo := i + 2
		if isBlank(row) {
			continue
		}
		line, err := parseTimesheetRow(row, index)
		if err != nil {
			issues = append(issues, types.ImportIssue{Line: lineNo, Message: err.Error()})
			continue
		}
		line.Line = lineNo
		lines = append(lines, line)
	}
	return lines, issues, nil
}

func parseTimesheetRow(row []string, index map[string]int) (TimesheetLine, error) {
	get := func(name string) string {
		i, ok := index[name]
		if !ok {
			return ""
		}
		return cellValue(row, i)
	}

	email := get("employee_email")
	if email == "" {
		return TimesheetLine{}, errors.New("employee_email is empty")
	}
	day, err := ParseSheetDate(get("date"))
	if err != nil {
		return TimesheetLine{}, err
	}

	ts := types.Timesheet{
		WorkDate: day,
		Status:   strings.ToLower(get("status")),
		Notes:    get("notes"),
	}
	if ts.Status == "" {
		ts.Status = types.AttendancePresent
	}
	if h := get("hours"); h != "" {
		hours, err := strconv.ParseFloat(h, 64)
		if err != nil {
			return TimesheetLine{}, fmt.Errorf("hours %q is not a number", h)
		}
		ts.Hours = hours
	} else if ts.Status == types.AttendancePresent {
		ts.Hours = 8
	}

	return TimesheetLine{EmployeeEmail: email, Timesheet: ts}, nil
}

// ParseSheetDate accepts ISO dates, day-first dates and Excel serial numbers.
func ParseSheetDate(value string) (types.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return types.Date{}, errors.New("date is empty")
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// plausible serials only, so plain years are not read as dates
		if serial >= 20000 && serial <= 80000 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return types.NewDate(parsed), nil
			}
		}
		return types.Date{}, fmt.Errorf("date %q is not a valid date", value)
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return types.NewDate(parsed), nil
		}
	}
	return types.Date{}, fmt.Errorf("date %q is not a valid date", value)
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, " ", "_")
	switch h {
	case "email", "employee":
		return "employee_email"
	case "work_date", "day":
		return "date"
	}
	return h
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
