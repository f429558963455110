package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffdesk/internal/types"
)

func validSubmission() *types.Submission {
	return &types.Submission{
		RequirementID:      uuid.New(),
		CandidateName:      "Alice Fernandes",
		Email:              "alice@example.com",
		ContactNumber:      "9876543210",
		TotalExperience:    6,
		RelevantExperience: 4,
		NoticePeriodDays:   30,
		Skills:             types.StringList{"go", "postgres"},
		InterviewStatus:    types.InterviewPending,
	}
}

func asErrors(t *testing.T, err error) *Errors {
	t.Helper()
	var verrs *Errors
	require.True(t, errors.As(err, &verrs), "expected *Errors, got %T: %v", err, err)
	return verrs
}

func TestSubmission_Valid(t *testing.T) {
	assert.NoError(t, Validate(validSubmission()))
}

func TestSubmission_RelevantExceedsTotal(t *testing.T) {
	for _, tc := range []struct{ total, relevant float64 }{
		{0, 0.5},
		{3, 3.1},
		{10, 25},
	} {
		s := validSubmission()
		s.TotalExperience = tc.total
		s.RelevantExperience = tc.relevant

		verrs := asErrors(t, Validate(s))
		assert.True(t, verrs.Has("relevant_experience"))
		assert.Equal(t, "must not exceed total_experience", verrs.For("relevant_experience"))
	}
}

func TestSubmission_RelevantEqualsTotal(t *testing.T) {
	s := validSubmission()
	s.RelevantExperience = s.TotalExperience
	assert.NoError(t, Validate(s))
}

func TestEmailShape(t *testing.T) {
	bad := []string{"", "alice", "alice@", "alice@example", "@example.com", "alice@example.c", "alice example@x.com"}
	for _, email := range bad {
		s := validSubmission()
		s.Email = email
		verrs := asErrors(t, Validate(s))
		assert.True(t, verrs.Has("email"), "email %q should fail", email)
	}

	good := []string{"alice@example.com", "a.b+c@mail.example.co.in", "x_y@host-name.org"}
	for _, email := range good {
		s := validSubmission()
		s.Email = email
		assert.NoError(t, Validate(s), "email %q should pass", email)
	}
}

func TestContactNumber(t *testing.T) {
	for _, phone := range []string{"0123456789", "9999999999", "9876543210"} {
		s := validSubmission()
		s.ContactNumber = phone
		assert.NoError(t, Validate(s), "phone %q should pass", phone)
	}

	for _, phone := range []string{"987654321", "98765432100", "98765-4321", "+919876543210", "abcdefghij"} {
		s := validSubmission()
		s.ContactNumber = phone
		verrs := asErrors(t, Validate(s))
		assert.Equal(t, "must be a 10-digit number", verrs.For("contact_number"), phone)
	}
}

func TestRequiredFields(t *testing.T) {
	verrs := asErrors(t, Validate(&types.Submission{}))
	for _, field := range []string{"requirement_id", "candidate_name", "email", "contact_number", "interview_status"} {
		assert.Equal(t, "is required", verrs.For(field), field)
	}
}

func TestInterview_Rules(t *testing.T) {
	iv := &types.Interview{
		SubmissionID:    uuid.New(),
		RequirementID:   uuid.New(),
		ScheduledAt:     time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		MeetingLink:     "https://meet.example.com/abc-defg",
		Level:           "L1",
		Status:          "scheduled",
	}
	require.NoError(t, Validate(iv))

	iv.MeetingLink = "not a link"
	iv.DurationMinutes = 5
	iv.Level = "L9"
	verrs := asErrors(t, Validate(iv))
	assert.Equal(t, "must be a valid URL", verrs.For("meeting_link"))
	assert.Equal(t, "must be at least 15", verrs.For("duration_minutes"))
	assert.Equal(t, "must be one of: L1, L2, L3, client, HR", verrs.For("level"))

	iv.ScheduledAt = time.Time{}
	verrs = asErrors(t, Validate(iv))
	assert.Equal(t, "is required", verrs.For("scheduled_at"))
}

func TestClient_SPOCsAreValidated(t *testing.T) {
	c := &types.Client{
		Name:   "Acme Logistics",
		Status: "active",
		SPOCs: types.SPOCList{
			{Name: "Ravi Kumar", Email: "ravi@acme.in", Phone: "9123456789"},
			{Name: "Meera", Email: "meera@acme", Phone: "12345"},
		},
	}

	verrs := asErrors(t, Validate(c))
	assert.True(t, verrs.Has("spocs[1].email"))
	assert.True(t, verrs.Has("spocs[1].phone"))
	assert.False(t, verrs.Has("spocs[0].email"))

	c.SPOCs = nil
	verrs = asErrors(t, Validate(c))
	assert.Equal(t, "is required", verrs.For("spocs"))
}

func TestEmployee_Roles(t *testing.T) {
	e := &types.Employee{
		Name:   "Asha Rao",
		Email:  "asha@agency.in",
		Phone:  "9000000001",
		Roles:  types.StringList{"recruiter"},
		Status: "active",
	}
	require.NoError(t, Validate(e))

	e.Roles = types.StringList{"recruiter", "janitor"}
	verrs := asErrors(t, Validate(e))
	assert.True(t, verrs.Has("roles[1]"))

	e.Roles = types.StringList{}
	verrs = asErrors(t, Validate(e))
	assert.Equal(t, "must contain at least 1 items", verrs.For("roles"))
}

func TestTimesheet_Rules(t *testing.T) {
	ts := &types.Timesheet{EmployeeID: uuid.New(), Hours: 8, Status: "present"}
	verrs := asErrors(t, Validate(ts))
	assert.Equal(t, "is required", verrs.For("work_date"))

	ts.WorkDate = types.NewDate(time.Now())
	require.NoError(t, Validate(ts))

	ts.Hours = 25
	verrs = asErrors(t, Validate(ts))
	assert.Equal(t, "must be at most 24", verrs.For("hours"))
}

func TestRequirement_ExperienceRange(t *testing.T) {
	r := &types.Requirement{
		Title:         "Backend Engineer",
		ClientID:      uuid.New(),
		Positions:     2,
		MinExperience: 5,
		MaxExperience: 3,
		Status:        "open",
	}
	verrs := asErrors(t, Validate(r))
	assert.Equal(t, "must not be less than min_experience", verrs.For("max_experience"))
}

func TestField_OnlyReportsRequestedField(t *testing.T) {
	s := validSubmission()
	s.Email = "broken"
	s.ContactNumber = "123"

	err := Field(s, "email")
	verrs := asErrors(t, err)
	require.Len(t, verrs.Fields, 1)
	assert.Equal(t, "email", verrs.Fields[0].Field)

	assert.NoError(t, Field(s, "candidate_name"))
}

func TestErrors_Messages(t *testing.T) {
	e := &Errors{Fields: []FieldError{
		{Field: "email", Rule: "required", Message: "is required"},
		{Field: "email", Rule: "email_tld", Message: "must be a valid email address"},
		{Field: "hours", Rule: "lte", Message: "must be at most 24"},
	}}
	assert.Equal(t, map[string]string{"email": "is required", "hours": "must be at most 24"}, e.Messages())
	assert.Contains(t, e.Error(), "email is required")
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "total_experience", snakeCase("TotalExperience"))
	assert.Equal(t, "min_experience", snakeCase("MinExperience"))
	assert.Equal(t, "client_id", snakeCase("ClientID"))
}
