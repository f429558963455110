package types

import (
	"time"

	"github.com/google/uuid"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
	AttendanceHalfDay = "half-day"
)

// Timesheet is one employee's attendance for one day.
type Timesheet struct {
	ID         uuid.UUID `json:"id" csv:"id"`
	EmployeeID uuid.UUID `json:"employee_id" csv:"employee_id" validate:"required"`
	WorkDate   Date      `json:"work_date" csv:"work_date" validate:"required"`
	Hours      float64   `json:"hours" csv:"hours" validate:"gte=0,lte=24"`
	Status     string    `json:"status" csv:"status" validate:"required,oneof=present absent leave half-day"`
	Notes      string    `json:"notes" csv:"notes" validate:"max=1000"`
	CreatedAt  time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" csv:"updated_at"`
}

func (t *Timesheet) GetID() uuid.UUID   { return t.ID }
func (t *Timesheet) SetID(id uuid.UUID) { t.ID = id }

// ImportResult summarizes a timesheet spreadsheet import.
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  []ImportIssue `json:"skipped"`
}

// ImportIssue explains why one spreadsheet line was not imported.
type ImportIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
