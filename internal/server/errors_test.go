package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/staffdesk/internal/db"
	"github.com/jonathan/staffdesk/internal/schemas"
	"github.com/jonathan/staffdesk/internal/validation"
)

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrEmployeeNotFound(t *testing.T) {
	id := uuid.New()
	err := &ErrEmployeeNotFound{EmployeeID: id}
	assert.Equal(t, "employee not found: "+id.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "size", Message: "must be a positive integer"}
	assert.Equal(t, "validation error: size - must be a positive integer", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: http.StatusOK},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, expected: http.StatusUnauthorized},
		{name: "forbidden", err: &ErrForbidden{Action: "delete employees"}, expected: http.StatusForbidden},
		{name: "db not found", err: fmt.Errorf("failed to delete client: %w", db.ErrNotFound), expected: http.StatusNotFound},
		{name: "db conflict", err: fmt.Errorf("failed to create client: %w", db.ErrConflict), expected: http.StatusConflict},
		{name: "too large", err: &http.MaxBytesError{Limit: 10}, expected: http.StatusRequestEntityTooLarge},
		{name: "media", err: &ErrUnsupportedMedia{FileName: "a.exe"}, expected: http.StatusUnsupportedMediaType},
		{name: "field rules", err: &validation.Errors{}, expected: http.StatusUnprocessableEntity},
		{name: "schema", err: &schemas.ValidationError{}, expected: http.StatusBadRequest},
		{name: "document", err: &schemas.DocumentError{Cause: errors.New("eof")}, expected: http.StatusBadRequest},
		{name: "wrapped", err: fmt.Errorf("outer: %w", &ErrInvalidCredentials{}), expected: http.StatusUnauthorized},
		{name: "other", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorPayload(t *testing.T) {
	internal := errors.New("pq: password authentication failed")
	assert.Equal(t, errorBody{Error: "internal server error"}, errorPayload(internal, http.StatusInternalServerError))

	fields := &validation.Errors{Fields: []validation.FieldError{{Field: "email", Rule: "required", Message: "is required"}}}
	body := errorPayload(fmt.Errorf("wrapped: %w", fields), http.StatusUnprocessableEntity)
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, fields.Fields, body.Fields)

	schemaErr := &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "name", Message: "name is required"}}}
	body = errorPayload(schemaErr, http.StatusBadRequest)
	assert.Equal(t, "request does not match schema", body.Error)
	assert.Equal(t, schemaErr.Errors, body.Fields)

	body = errorPayload(&ErrForbidden{Action: "create employees"}, http.StatusForbidden)
	assert.Equal(t, "not allowed to create employees", body.Error)
	assert.Nil(t, body.Fields)
}
