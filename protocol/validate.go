package protocol

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError is a validation failure on one field of a batch
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError collects every field error found in a batch
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the shape of a batch before it reaches the reconciler:
// required names, non-negative counts and indices, known template node types.
// It does not check ids or stack depth; those depend on reconciler state.
func Validate(m Mutations) error {
	var errs MultiError

	for i, t := range m.Templates {
		errs = append(errs, toFieldErrors(fmt.Sprintf("templates[%d]", i), getValidator().Struct(t))...)
	}
	for i, e := range m.Edits {
		if e == nil {
			errs = append(errs, FieldError{Field: fmt.Sprintf("edits[%d]", i), Message: "missing edit"})
			continue
		}
		prefix := fmt.Sprintf("edits[%d](%s)", i, e.Op())
		errs = append(errs, toFieldErrors(prefix, getValidator().Struct(e))...)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// toFieldErrors converts go-playground/validator errors to field errors
func toFieldErrors(prefix string, err error) []FieldError {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: prefix, Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		var message string
		switch e.Tag() {
		case "required", "required_if":
			message = fmt.Sprintf("%s is required", e.Field())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
		case "min":
			message = fmt.Sprintf("%s must have at least %s entries", e.Field(), e.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
		default:
			message = fmt.Sprintf("%s is invalid", e.Field())
		}

		// Namespace is "Type.Field[...]"; drop the struct name
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, FieldError{Field: prefix + "." + field, Message: message})
	}
	return out
}
