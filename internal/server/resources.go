package server

import (
	"github.com/jonathan/staffdesk/internal/db"
	"github.com/jonathan/staffdesk/internal/types"
)

// DBResources binds every CRUD resource to its database table. Employee writes are
// limited to admins and hash submitted passwords.
func DBResources(d *db.DB, employees *EmployeeService) []resourceHandler {
	return []resourceHandler{
		newResource(Resource[types.Requirement]{
			Name:   types.ResourceRequirements,
			List:   d.ListRequirements,
			Get:    d.GetRequirement,
			Create: d.CreateRequirement,
			Update: d.UpdateRequirement,
			Delete: d.DeleteRequirement,
		}),
		newResource(Resource[types.Submission]{
			Name:   types.ResourceSubmissions,
			List:   d.ListSubmissions,
			Get:    d.GetSubmission,
			Create: d.CreateSubmission,
			Update: d.UpdateSubmission,
			Delete: d.DeleteSubmission,
		}),
		newResource(Resource[types.Interview]{
			Name:   types.ResourceInterviews,
			List:   d.ListInterviews,
			Get:    d.GetInterview,
			Create: d.CreateInterview,
			Update: d.UpdateInterview,
			Delete: d.DeleteInterview,
		}),
		newResource(Resource[types.Client]{
			Name:   types.ResourceClients,
			List:   d.ListClients,
			Get:    d.GetClient,
			Create: d.CreateClient,
			Update: d.UpdateClient,
			Delete: d.DeleteClient,
		}),
		newResource(Resource[types.Employee]{
			Name:       types.ResourceEmployees,
			List:       d.ListEmployees,
			Get:        d.GetEmployee,
			Create:     d.CreateEmployee,
			Update:     d.UpdateEmployee,
			Delete:     d.DeleteEmployee,
			Prepare:    employees.PrepareEmployee,
			WriteRoles: []string{types.RoleAdmin},
		}),
		newResource(Resource[types.Timesheet]{
			Name:   types.ResourceTimesheets,
			List:   d.ListTimesheets,
			Get:    d.GetTimesheet,
			Create: d.CreateTimesheet,
			Update: d.UpdateTimesheet,
			Delete: d.DeleteTimesheet,
		}),
	}
}
