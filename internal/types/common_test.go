//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsResource(t *testing.T) {
	for _, r := range Resources {
		assert.True(t, IsResource(r), r)
	}
	assert.False(t, IsResource("users"))
	assert.False(t, IsResource(""))
}

func TestDate_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var ts Timesheet
		require.NoError(t, json.Unmarshal([]byte(`{"work_date":"2024-03-15"}`), &ts))
		assert.Equal(t, 2024, ts.WorkDate.Year())
		assert.Equal(t, time.March, ts.WorkDate.Month())
		assert.Equal(t, 15, ts.WorkDate.Day())

		data, err := json.Marshal(ts.WorkDate)
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-15"`, string(data))
	})

	t.Run("null and empty", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
		require.NoError(t, json.Unmarshal([]byte(`""`), &d))
		assert.True(t, d.IsZero())

		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("bad format", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &d))
	})
}

func TestNewDate_TruncatesTime(t *testing.T) {
	d := NewDate(time.Date(2024, 5, 1, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, "2024-05-01", d.String())
	assert.Equal(t, 0, d.Hour())
}

func TestStringList_ScanValue(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["go","sql"]`)))
	assert.Equal(t, StringList{"go", "sql"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	assert.Error(t, l.Scan("not bytes"))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestMarshalCSV(t *testing.T) {
	s, err := StringList{"go", "sql"}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "go; sql", s)

	id := uuid.MustParse("7d5c2a8e-0c1e-4f7e-9a43-1b2c3d4e5f60")
	s, err = IDList{id}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, id.String(), s)

	s, err = SPOCList{{Name: "Ravi"}, {Name: "Meera"}}.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "Ravi; Meera", s)
}

func TestEmployee_HasRole(t *testing.T) {
	e := Employee{Roles: StringList{RoleRecruiter, RoleLead}}
	assert.True(t, e.HasRole(RoleAdmin, RoleLead))
	assert.False(t, e.HasRole(RoleAdmin))
}

func TestInterview_EndsAt(t *testing.T) {
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	i := Interview{ScheduledAt: start, DurationMinutes: 45}
	assert.Equal(t, start.Add(45*time.Minute), i.EndsAt())
}

func TestRecord_SetID(t *testing.T) {
	id := uuid.New()
	records := []Record{&Requirement{}, &Submission{}, &Interview{}, &Employee{}, &Client{}, &Timesheet{}}
	for _, r := range records {
		r.SetID(id)
		assert.Equal(t, id, r.GetID())
	}
}
