package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized: no authenticated user")

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

func NewIndexedValidationError(index int, field, msg string) error {
	return &ValidationError{Field: fmt.Sprintf("categories[%d].%s", index, field), Msg: msg}
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Unwrap() []error {
	return ve.Errors
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// ErrOrNil returns ve when it holds at least one error.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

// FieldMessages flattens a validation error into field -> message pairs for JSON responses.
func FieldMessages(err error) []map[string]string {
	var out []map[string]string
	var many *ValidationErrors
	if errors.As(err, &many) {
		for _, e := range many.Errors {
			out = append(out, FieldMessages(e)...)
		}
		return out
	}
	var one *ValidationError
	if errors.As(err, &one) {
		field := one.Field
		if field == "" {
			field = "general"
		}
		return []map[string]string{{field: one.Msg}}
	}
	return nil
}
