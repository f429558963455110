// Package server provides the staffdesk REST API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/db"
	"github.com/jonathan/staffdesk/internal/schemas"
	"github.com/jonathan/staffdesk/internal/validation"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrEmployeeNotFound indicates the employee was not found
type ErrEmployeeNotFound struct {
	EmployeeID uuid.UUID
}

func (e *ErrEmployeeNotFound) Error() string {
	return fmt.Sprintf("employee not found: %s", e.EmployeeID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates a malformed request outside field validation
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the employee lacks the role for an action
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

// ErrUnsupportedMedia indicates an upload of a rejected file type
type ErrUnsupportedMedia struct {
	FileName string
}

func (e *ErrUnsupportedMedia) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.FileName)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		credentials *ErrInvalidCredentials
		mismatch    *ErrPasswordMismatch
		notFound    *ErrEmployeeNotFound
		badRequest  *ErrValidation
		forbidden   *ErrForbidden
		media       *ErrUnsupportedMedia
		fields      *validation.Errors
		schemaErr   *schemas.ValidationError
		document    *schemas.DocumentError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &credentials), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &media):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &fields):
		return http.StatusUnprocessableEntity
	case errors.As(err, &badRequest), errors.As(err, &schemaErr), errors.As(err, &document):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string      `json:"error"`
	Fields interface{} `json:"fields,omitempty"`
}

// errorPayload builds the response body for err. Field lists are attached for validation
// failures; internal errors are not echoed to the caller.
func errorPayload(err error, status int) errorBody {
	var (
		fields    *validation.Errors
		schemaErr *schemas.ValidationError
	)
	switch {
	case errors.As(err, &fields):
		return errorBody{Error: "validation failed", Fields: fields.Fields}
	case errors.As(err, &schemaErr):
		return errorBody{Error: "request does not match schema", Fields: schemaErr.Errors}
	case status == http.StatusInternalServerError:
		return errorBody{Error: "internal server error"}
	}
	return errorBody{Error: err.Error()}
}
