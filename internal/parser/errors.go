package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/rollcall/internal/errors"
)

// DateParseError represents a date parsing error with helpful suggestions.
type DateParseError struct {
	Input    string
	Field    string
	Message  string
	Examples []string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap lets callers match the error with errors.Is(err, ErrInvalidDate).
func (e *DateParseError) Unwrap() error {
	return errors.ErrInvalidDate
}

// DateExamples provides example date formats.
var DateExamples = []string{
	"2024-03-01",
	"today",
	"yesterday",
	"last friday",
	"3 days ago",
	"March 1 2024",
}

// NewDateError creates a date parse error for the named flag or argument.
func NewDateError(field, input string) *DateParseError {
	return &DateParseError{
		Input:    input,
		Field:    field,
		Message:  "could not parse date",
		Examples: DateExamples,
	}
}

// FormatWithExamples returns the error message with example suggestions.
func (e *DateParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// ToUserError converts a DateParseError to a UserError for consistent handling.
func (e *DateParseError) ToUserError() *errors.UserError {
	suggestion := fmt.Sprintf("Try: %s", strings.Join(e.Examples[:min(3, len(e.Examples))], ", "))
	return errors.NewUserErrorWithField(errors.ErrInvalidDate, e.Field, e.Input, "could not parse "+e.Field, suggestion)
}
