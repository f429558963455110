package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/staffdesk/internal/types"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
)

// Validator applies the entity rules declared in `validate` struct tags.
type Validator struct {
	validate *validator.Validate
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// New builds a Validator with the staffdesk custom rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Zero dates count as missing so `required` works on types.Date.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(types.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, types.Date{})

	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("email_tld", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Default returns a shared Validator.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Validate checks every rule of record. It returns nil or *Errors.
func Validate(record any) error {
	return Default().Struct(record)
}

// Field checks record and keeps only the violations of one field, as done when a form
// field loses focus.
func Field(record any, field string) error {
	err := Validate(record)
	var verrs *Errors
	if !errors.As(err, &verrs) {
		return err
	}
	kept := &Errors{}
	for _, f := range verrs.Fields {
		if f.Field == field || strings.HasPrefix(f.Field, field+"[") || strings.HasPrefix(f.Field, field+".") {
			kept.Fields = append(kept.Fields, f)
		}
	}
	if len(kept.Fields) == 0 {
		return nil
	}
	return kept
}

// Struct checks every rule of record. It returns nil or *Errors.
func (v *Validator) Struct(record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate record: %w", err)
	}

	out := &Errors{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email", "email_tld":
		return "must be a valid email address"
	case "phone10":
		return "must be a 10-digit number"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "ltefield":
		return "must not exceed " + snakeCase(fe.Param())
	case "gtefield":
		return "must not be less than " + snakeCase(fe.Param())
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Map || k == reflect.Array
}

// snakeCase turns a Go field name into its JSON name, e.g. TotalExperience -> total_experience.
func snakeCase(name string) string {
	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
