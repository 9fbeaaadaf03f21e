package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so error details match the request body
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// ValidateStruct validates s and converts failures into a validation error whose
// details map each offending field to a readable message.
func ValidateStruct(s interface{}) error {
	return ValidateStructWithMessage(s, "Validation failed")
}

// ValidateStructWithMessage is ValidateStruct with a custom top-level message
func ValidateStructWithMessage(s interface{}, message string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewValidationError(message, map[string]interface{}{"error": err.Error()})
	}

	details := make(map[string]interface{}, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fieldPath(fe)] = FormatFieldError(fe)
	}
	return apperrors.NewValidationError(message, details)
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "sa_id":
		return e.Field() + " must be 13 digits"
	case "isodate":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "phone":
		return e.Field() + " must be a valid phone number"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
