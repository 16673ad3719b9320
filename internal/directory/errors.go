package directory

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrValidation = errors.New("directory: validation failed")
	ErrPattern    = errors.New("directory: invalid search pattern")
)

// Field names reported in ValidationError.
const (
	FieldFirstName = "first name"
	FieldLastName  = "last name"
	FieldEmail     = "email"
)

// ValidationError reports a record field that failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PatternError reports a search term that is not a valid regular expression.
// It matches ErrPattern with errors.Is and unwraps to the regexp error.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPattern.
func (e *PatternError) Is(target error) bool {
	return target == ErrPattern
}
