package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/types"
)

func TestWriteCSV_Submissions(t *testing.T) {
	id := uuid.MustParse("7d5c2a8e-0c1e-4f7e-9a43-1b2c3d4e5f60")
	records := []types.Submission{{
		ID:              id,
		CandidateName:   "Alice",
		Email:           "alice@example.com",
		ContactNumber:   "9876543210",
		TotalExperience: 4.5,
		Skills:          types.StringList{"go", "sql"},
		InterviewStatus: types.InterviewPending,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,requirement_id,candidate_name,email,contact_number"))
	assert.Contains(t, lines[1], id.String())
	assert.Contains(t, lines[1], "go; sql")
	assert.Contains(t, lines[1], "4.5")
}

func TestWriteCSV_EmployeesHidePasswords(t *testing.T) {
	records := []types.Employee{{Name: "Asha", Email: "asha@agency.in", Roles: types.StringList{"admin"}, Password: "secret-pass", PasswordHash: "$2a$hash"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.NotContains(t, buf.String(), "secret-pass")
	assert.NotContains(t, buf.String(), "$2a$hash")
	assert.NotContains(t, buf.String(), "password")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV[types.Timesheet](&buf, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "id,employee_id,work_date"))
}

func TestWriteXLSX(t *testing.T) {
	rows := []table.Row{
		{"name": "Alice", "city": "Pune", "note": "A very long note that is never truncated in exports"},
		{"name": "Bob", "city": "Delhi"},
	}
	cols := []table.Column{{Key: "name", Label: "Name"}, {Key: "city", Label: "City"}, {Key: "note", Label: "Note"}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "candidates/2024", rows, cols))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "candidates_2024", f.GetSheetName(0))
	got, err := f.GetRows("candidates_2024")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Name", "City", "Note"}, got[0])
	assert.Equal(t, "A very long note that is never truncated in exports", got[1][2])
	require.GreaterOrEqual(t, len(got[2]), 2)
	assert.Equal(t, []string{"Bob", "Delhi"}, got[2][:2])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName("  "))
	assert.Equal(t, "a_b_c", sheetName("a:b?c"))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), maxSheetName)
}

func timesheetWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseTimesheets(t *testing.T) {
	buf := timesheetWorkbook(t, [][]interface{}{
		{"Date", "Employee Email", "Hours", "Status", "Notes"},
		{"2024-03-14", "asha@agency.in", 8.5, "Present", "client visit"},
		{45366, "ravi@agency.in", "", "leave", ""},
		{"15/03/2024", "asha@agency.in", "", "", ""},
		{"", "", "", "", ""},
		{"not a date", "meera@agency.in", 8, "present", ""},
		{"2024-03-15", "", 8, "present", ""},
		{"2024-03-16", "dev@agency.in", "eight", "present", ""},
	})

	lines, issues, err := ParseTimesheets(buf)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, 2, lines[0].Line)
	assert.Equal(t, "asha@agency.in", lines[0].EmployeeEmail)
	assert.Equal(t, "2024-03-14", lines[0].Timesheet.WorkDate.String())
	assert.Equal(t, 8.5, lines[0].Timesheet.Hours)
	assert.Equal(t, "present", lines[0].Timesheet.Status)
	assert.Equal(t, "client visit", lines[0].Timesheet.Notes)

	assert.Equal(t, "2024-03-15", lines[1].Timesheet.WorkDate.String())
	assert.Equal(t, "leave", lines[1].Timesheet.Status)
	assert.Equal(t, 0.0, lines[1].Timesheet.Hours)

	// missing status defaults to a full present day
	assert.Equal(t, "present", lines[2].Timesheet.Status)
	assert.Equal(t, 8.0, lines[2].Timesheet.Hours)

	require.Len(t, issues, 3)
	assert.Equal(t, 6, issues[0].Line)
	assert.Contains(t, issues[0].Message, "not a valid date")
	assert.Equal(t, 7, issues[1].Line)
	assert.Contains(t, issues[1].Message, "employee_email")
	assert.Equal(t, 8, issues[2].Line)
	assert.Contains(t, issues[2].Message, "not a number")
}

func TestParseTimesheets_BadWorkbooks(t *testing.T) {
	_, _, err := ParseTimesheets(strings.NewReader("not a workbook"))
	assert.Error(t, err)

	buf := timesheetWorkbook(t, [][]interface{}{{"name", "hours"}, {"Asha", 8}})
	_, _, err = ParseTimesheets(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_email")

	empty := timesheetWorkbook(t, nil)
	_, _, err = ParseTimesheets(empty)
	assert.Error(t, err)
}

func TestParseSheetDate(t *testing.T) {
	for _, in := range []string{"2024-03-15", "15/03/2024", "15-03-2024", "15 Mar 2024", "15-Mar-2024", "Mar 15, 2024", "45366"} {
		d, err := ParseSheetDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d.Time, in)
	}

	for _, in := range []string{"", "2024", "13/13/2024", "yesterday"} {
		_, err := ParseSheetDate(in)
		assert.Error(t, err, in)
	}
}

func TestContentType(t *testing.T) {
	assert.Contains(t, ContentType(FormatCSV), "text/csv")
	assert.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
}
