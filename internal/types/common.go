// Package types provides the record types exchanged between the staffdesk backend, its
// client-side stores and the console.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resource names as they appear in REST paths.
const (
	ResourceRequirements = "requirements"
	ResourceSubmissions  = "submissions"
	ResourceInterviews   = "interviews"
	ResourceEmployees    = "employees"
	ResourceClients      = "clients"
	ResourceTimesheets   = "timesheets"
)

// Resources lists every CRUD resource in display order.
var Resources = []string{
	ResourceRequirements,
	ResourceSubmissions,
	ResourceInterviews,
	ResourceClients,
	ResourceEmployees,
	ResourceTimesheets,
}

// IsResource reports whether name is a known CRUD resource.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

// Statuses shared by clients and employees
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Record is implemented by every entity served through the generic CRUD endpoints.
type Record interface {
	GetID() uuid.UUID
	SetID(id uuid.UUID)
}

// StringList is a list of strings stored as a JSONB array.
type StringList []string

// MarshalCSV joins the list for spreadsheet exports.
func (l StringList) MarshalCSV() (string, error) {
	return strings.Join(l, "; "), nil
}

// Scan implements the Scanner interface for StringList
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	return scanJSON(src, l)
}

// Value implements the Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// scanJSON decodes a JSONB column delivered as bytes or text.
func scanJSON(src interface{}, dst any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSONB source type")
	}
}

// IDList is a list of record ids stored as a JSONB array.
type IDList []uuid.UUID

// MarshalCSV joins the ids for spreadsheet exports.
func (l IDList) MarshalCSV() (string, error) {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = id.String()
	}
	return strings.Join(parts, "; "), nil
}

// Scan implements the Scanner interface for IDList
func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	return scanJSON(src, l)
}

// Value implements the Valuer interface for IDList
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// DateLayout is the wire format of Date.
const DateLayout = "2006-01-02"

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String returns the YYYY-MM-DD form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalCSV implements gocsv.TypeMarshaller
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// Scan implements the Scanner interface
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
