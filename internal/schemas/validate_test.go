package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "person.schema.json", personSchema)

	t.Run("valid", func(t *testing.T) {
		jsonPath := writeFile(t, dir, "valid.json", `{"name": "Alice", "age": 30}`)
		assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
	})

	t.Run("missing field", func(t *testing.T) {
		jsonPath := writeFile(t, dir, "missing.json", `{"age": 30}`)
		err := ValidateJSON(schemaPath, jsonPath)
		require.Error(t, err)

		validationErr, ok := err.(*ValidationError)
		require.True(t, ok, "error should be ValidationError type")
		assert.Greater(t, len(validationErr.Errors), 0)
	})

	t.Run("wrong type", func(t *testing.T) {
		jsonPath := writeFile(t, dir, "wrong.json", `{"name": "Alice", "age": "thirty"}`)
		err := ValidateJSON(schemaPath, jsonPath)
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "age", validationErr.Errors[0].Field)
	})

	t.Run("missing files", func(t *testing.T) {
		err := ValidateJSON(filepath.Join(dir, "nope.schema.json"), schemaPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")

		err = ValidateJSON(schemaPath, filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("malformed document", func(t *testing.T) {
		jsonPath := writeFile(t, dir, "malformed.json", "{ invalid json }")
		assert.Error(t, ValidateJSON(schemaPath, jsonPath))
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "1. name: is required")
	assert.Contains(t, errorMsg, "2. age: must be a number")
}

func TestValidateDocument_Requirement(t *testing.T) {
	valid := `{
		"title": "Backend Engineer",
		"client_id": "7d5c2a8e-0c1e-4f7e-9a43-1b2c3d4e5f60",
		"recruiter_ids": null,
		"positions": 2,
		"min_experience": 3,
		"max_experience": 6.5,
		"status": "open"
	}`
	assert.NoError(t, ValidateDocument("requirements", []byte(valid)))

	wrongType := `{
		"title": "Backend Engineer",
		"client_id": "not-a-uuid",
		"positions": "two",
		"status": "open"
	}`
	err := ValidateDocument("requirements", []byte(wrongType))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	fields := map[string]bool{}
	for _, fe := range validationErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["client_id"])
	assert.True(t, fields["positions"])
}

func TestValidateDocument_ClientSPOCs(t *testing.T) {
	doc := `{"name": "Acme", "spocs": [{"name": "Ravi", "email": "ravi@acme.in"}]}`
	err := ValidateDocument("clients", []byte(doc))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "spocs.0", validationErr.Errors[0].Field)
}

func TestValidateDocument_Timesheet(t *testing.T) {
	doc := `{"employee_id": "7d5c2a8e-0c1e-4f7e-9a43-1b2c3d4e5f60", "work_date": "2024-03-15", "hours": 8, "status": "present"}`
	assert.NoError(t, ValidateDocument("timesheets", []byte(doc)))

	doc = `{"employee_id": "7d5c2a8e-0c1e-4f7e-9a43-1b2c3d4e5f60", "work_date": "15/03/2024", "status": "present"}`
	assert.Error(t, ValidateDocument("timesheets", []byte(doc)))
}

func TestValidateDocument_NotJSON(t *testing.T) {
	err := ValidateDocument("submissions", []byte("{ nope"))
	var docErr *DocumentError
	assert.True(t, errors.As(err, &docErr))
}

func TestValidateDocument_UnknownResource(t *testing.T) {
	assert.NoError(t, ValidateDocument("attachments", []byte("anything")))
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin([]byte(`{"email": "asha@agency.in", "password": "x"}`)))
	assert.Error(t, ValidateLogin([]byte(`{"email": "asha@agency.in"}`)))
	assert.Error(t, ValidateLogin([]byte(`{"email": 1, "password": "x"}`)))
}

func TestResolveSchemaPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.schema.json", personSchema)
	assert.Equal(t, path, ResolveSchemaPath(path))
	assert.Empty(t, ResolveSchemaPath(filepath.Join(dir, "missing.json")))
}
