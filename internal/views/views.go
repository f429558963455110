// Package views holds the table column sets shown for each resource.
package views

import (
	"strings"

	"github.com/jonathan/staffdesk/internal/table"
	"github.com/jonathan/staffdesk/internal/types"
)

var columns = map[string][]table.Column{
	types.ResourceRequirements: {
		{Key: "title", Label: "Title"},
		{Key: "location", Label: "Location"},
		{Key: "positions", Label: "Positions"},
		{Key: "min_experience", Label: "Min Exp"},
		{Key: "max_experience", Label: "Max Exp"},
		{Key: "status", Label: "Status"},
		{Key: "description", Label: "Description", Render: table.HTMLText},
	},
	types.ResourceSubmissions: {
		{Key: "candidate_name", Label: "Candidate"},
		{Key: "email", Label: "Email"},
		{Key: "contact_number", Label: "Contact"},
		{Key: "total_experience", Label: "Total Exp"},
		{Key: "relevant_experience", Label: "Relevant Exp"},
		{Key: "notice_period_days", Label: "Notice (days)"},
		{Key: "skills", Label: "Skills"},
		{Key: "interview_status", Label: "Interview Status"},
	},
	types.ResourceInterviews: {
		{Key: "scheduled_at", Label: "Scheduled", Render: dateTime},
		{Key: "duration_minutes", Label: "Minutes"},
		{Key: "level", Label: "Level"},
		{Key: "status", Label: "Status"},
		{Key: "meeting_link", Label: "Meeting Link"},
		{Key: "feedback", Label: "Feedback"},
	},
	types.ResourceClients: {
		{Key: "name", Label: "Client"},
		{Key: "spocs", Label: "SPOCs"},
		{Key: "payment_terms_days", Label: "Payment Terms"},
		{Key: "address", Label: "Address"},
		{Key: "status", Label: "Status"},
	},
	types.ResourceEmployees: {
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "roles", Label: "Roles"},
		{Key: "status", Label: "Status"},
	},
	types.ResourceTimesheets: {
		{Key: "work_date", Label: "Date"},
		{Key: "employee_id", Label: "Employee"},
		{Key: "hours", Label: "Hours"},
		{Key: "status", Label: "Status"},
		{Key: "notes", Label: "Notes"},
	},
}

// Columns returns the columns of resource, or nil for an unknown resource.
func Columns(resource string) []table.Column {
	return columns[resource]
}

// Column finds one column of resource by key.
func Column(resource, key string) (table.Column, bool) {
	for _, c := range columns[resource] {
		if c.Key == key {
			return c, true
		}
	}
	return table.Column{}, false
}

// dateTime shortens an RFC 3339 timestamp to "YYYY-MM-DD HH:MM".
func dateTime(v any) string {
	s := table.Format(v)
	if len(s) < 16 || s[10] != 'T' {
		return s
	}
	return strings.Replace(s[:16], "T", " ", 1)
}
