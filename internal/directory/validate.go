package directory

import (
	"regexp"
	"strings"
)

// emailPattern accepts an ASCII local part, a dotted domain and a 2-4 letter
// top-level label. Plus-addressing and internationalized addresses are rejected.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)

// ValidateName reports whether text is usable as a first or last name.
func ValidateName(text string) bool {
	return strings.TrimSpace(text) != ""
}

// ValidateEmail reports whether text fully matches the accepted email format.
func ValidateEmail(text string) bool {
	return emailPattern.MatchString(text)
}

// CheckName returns a *ValidationError for field if value is blank.
func CheckName(field, value string) error {
	if !ValidateName(value) {
		return &ValidationError{Field: field, Value: value, Reason: "cannot be empty or whitespace"}
	}
	return nil
}

// CheckEmail returns a *ValidationError if value is not a valid email.
func CheckEmail(value string) error {
	if !ValidateEmail(value) {
		return &ValidationError{Field: FieldEmail, Value: value, Reason: "has an invalid format"}
	}
	return nil
}

// Validate checks the required fields of r in input order: first name,
// last name, email. Phone is free-form and never rejected.
func (r Record) Validate() error {
	if err := CheckName(FieldFirstName, r.FirstName); err != nil {
		return err
	}
	if err := CheckName(FieldLastName, r.LastName); err != nil {
		return err
	}
	return CheckEmail(r.Email)
}
