package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single form field violation.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors is a validation result, not an exception: an empty slice means
// the input passed. Handlers render these next to the offending fields.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no field errors"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// For returns the message for a field, or "" if that field passed.
func (e FieldErrors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Length bounds count characters, not bytes; the schema's LENGTH() checks
// do the same, so a multibyte value never passes here only to trip a CHECK.
func appendLengthError(errs FieldErrors, field, value string, min, max int) FieldErrors {
	switch {
	case value == "":
		return append(errs, FieldError{Field: field, Message: "is required"})
	case utf8.RuneCountInString(value) < min:
		return append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		})
	case utf8.RuneCountInString(value) > max:
		return append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters", max),
		})
	}
	return errs
}
