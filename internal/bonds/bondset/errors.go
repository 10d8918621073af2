package bondset

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat = errors.New("invalid bond number format")
	ErrInvalidRange  = errors.New("invalid bond range")
	ErrRangeTooLarge = errors.New("bond range too large")
	ErrEmptyResult   = errors.New("no bond numbers provided")
	ErrTooManyBonds  = errors.New("too many bonds in category")
)

// Form field names reported back to the client for highlighting.
const (
	FieldBondNumbers = "bond_numbers"
	FieldBondRange   = "bond_range"
	FieldBonds       = "bonds"
)

// Error is a validation failure for a single form field. Kind is one of the
// Err* sentinels above so callers can use errors.Is.
type Error struct {
	Kind  error
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, field, msg string) error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}
