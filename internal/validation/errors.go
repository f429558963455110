// Package validation checks entity records against their declarative field rules before
// they are submitted.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single rule violation on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors lists every violated rule of a record, in field order.
type Errors struct {
	Fields []FieldError `json:"fields"`
}

func (e *Errors) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf(" %s %s;", f.Field, f.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Has reports whether field has at least one violation.
func (e *Errors) Has(field string) bool {
	return e.For(field) != ""
}

// For returns the first message for field, or "".
func (e *Errors) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Messages maps each field to its first message, for form annotations.
func (e *Errors) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}
