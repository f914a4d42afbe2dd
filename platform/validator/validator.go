// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"lostpaws_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the application's custom rules
// registered: "isodate" (YYYY-MM-DD) and "pastdate" (a calendar date that is
// not in the future, compared in local time).
func New() *Validator {
	v := validator.New()

	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("isodate", validISODate)
	_ = v.RegisterValidation("pastdate", validPastDate)

	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterCustomTypeFunc registers a value extractor for custom field types,
// letting standard tags validate wrapper types like tri-state optionals.
func (val *Validator) RegisterCustomTypeFunc(fn validator.CustomTypeFunc, types ...interface{}) {
	val.v.RegisterCustomTypeFunc(fn, types...)
}

// FieldErrors translates a validation error into the complete list of
// field-level errors. Returns nil if err is not a validator error.
func FieldErrors(err error) []apperr.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "pastdate":
		return "must not be a future date"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}

func validISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !isoDatePattern.MatchString(value) {
		return false
	}
	_, err := time.ParseInLocation("2006-01-02", value, time.Local)
	return err == nil
}

// validPastDate accepts a YYYY-MM-DD value that is today or earlier. The
// comparison uses the local calendar date, not UTC, so a listing created late
// in the evening does not drift a day.
func validPastDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return false
	}
	today := time.Now().In(time.Local).Format("2006-01-02")
	return parsed.Format("2006-01-02") <= today
}
