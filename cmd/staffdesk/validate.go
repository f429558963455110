package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffdesk/internal/schemas"
	"github.com/jonathan/staffdesk/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <resource>",
	Short: "Check a JSON record against the schema and field rules",
	Long: `Check a JSON record file offline, exactly as the backend would before saving it: first
the JSON Schema of the resource (or --schema), then the field rules.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateFile   string
	validateSchema string
	validateField  string
)

func init() {
	validateCmd.Flags().StringVar(&validateFile, "file", "", "Path to the JSON record (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema file to use instead of the embedded one")
	validateCmd.Flags().StringVar(&validateField, "field", "", "Only report problems with this field (e.g. email, spocs)")
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	resource := args[0]
	if err := checkResource(resource); err != nil {
		return err
	}
	data, err := os.ReadFile(validateFile)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}
	out := cmd.OutOrStdout()

	if validateSchema != "" {
		schemaPath := schemas.ResolveSchemaPath(validateSchema)
		if schemaPath == "" {
			return fmt.Errorf("schema file not found: %s", validateSchema)
		}
		err = schemas.ValidateJSON(schemaPath, validateFile)
	} else {
		err = schemas.ValidateDocument(resource, data)
	}
	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			_, _ = fmt.Fprintln(out, "Validation failed (schema):")
			for _, f := range verr.Errors {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", f.Field, f.Message)
			}
			return fmt.Errorf("schema validation found %d problem(s)", len(verr.Errors))
		}
		return err
	}

	rec := newRecord(resource)
	if err := json.Unmarshal(data, rec); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", resource, err)
	}
	check := validation.Validate
	if validateField != "" {
		check = func(record any) error { return validation.Field(record, validateField) }
	}
	if err := check(rec); err != nil {
		var verrs *validation.Errors
		if !errors.As(err, &verrs) {
			return err
		}
		_, _ = fmt.Fprintln(out, "Validation failed:")
		printFieldErrors(out, err)
		return fmt.Errorf("validation found %d problem(s)", len(verrs.Fields))
	}

	_, _ = fmt.Fprintln(out, "Validation passed")
	return nil
}
