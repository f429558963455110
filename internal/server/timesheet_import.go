package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/events"
	"github.com/jonathan/staffdesk/internal/export"
	"github.com/jonathan/staffdesk/internal/types"
	"github.com/jonathan/staffdesk/internal/validation"
)

// TimesheetStore is the persistence used by spreadsheet imports.
type TimesheetStore interface {
	GetEmployeeByEmail(ctx context.Context, email string) (*types.Employee, error)
	UpsertTimesheet(ctx context.Context, t *types.Timesheet) (uuid.UUID, error)
}

// handleImportTimesheets upserts one timesheet per spreadsheet line. Lines naming an
// unknown employee or breaking a field rule are skipped and reported.
func (s *Server) handleImportTimesheets(w http.ResponseWriter, r *http.Request) {
	u, err := readUpload(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer func() { _ = u.closer.Close() }()

	lines, issues, err := export.ParseTimesheets(u.body)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "file", Message: err.Error()})
		return
	}

	result, err := s.importTimesheets(r, lines)
	if err != nil {
		s.fail(w, err)
		return
	}
	result.Skipped = append(issues, result.Skipped...)
	if result.Skipped == nil {
		result.Skipped = []types.ImportIssue{}
	}
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Line < result.Skipped[j].Line
	})
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) importTimesheets(r *http.Request, lines []export.TimesheetLine) (types.ImportResult, error) {
	ctx := r.Context()
	var result types.ImportResult
	employees := map[string]uuid.UUID{}

	for _, line := range lines {
		email := strings.ToLower(line.EmployeeEmail)
		employeeID, known := employees[email]
		if !known {
			e, err := s.timesheets.GetEmployeeByEmail(ctx, email)
			if err != nil {
				return result, fmt.Errorf("failed to resolve employee %s: %w", email, err)
			}
			if e != nil {
				employeeID = e.ID
			}
			employees[email] = employeeID
		}
		if employeeID == uuid.Nil {
			result.Skipped = append(result.Skipped, types.ImportIssue{Line: line.Line, Message: fmt.Sprintf("unknown employee %s", line.EmployeeEmail)})
			continue
		}

		ts := line.Timesheet
		ts.EmployeeID = employeeID
		if err := validation.Validate(&ts); err != nil {
			result.Skipped = append(result.Skipped, types.ImportIssue{Line: line.Line, Message: err.Error()})
			continue
		}

		id, err := s.timesheets.UpsertTimesheet(ctx, &ts)
		if err != nil {
			return result, fmt.Errorf("failed to save line %d: %w", line.Line, err)
		}
		ts.ID = id
		result.Imported++
		s.publish(r, types.ResourceTimesheets, events.ActionUpdated, id, &ts)
	}
	return result, nil
}
