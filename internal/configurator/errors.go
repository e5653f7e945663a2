package configurator

import (
	"fmt"
	"strings"
)

// MissingMessage is the violation reported when feature has no chosen option.
func MissingMessage(feature string) string {
	return fmt.Sprintf("Please select a %s option", feature)
}

// ValidationError carries the ordered violations of a rejected selection or name.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, " ")
}

// First returns the first violation, which is what single-message callers show.
func (e *ValidationError) First() string {
	if len(e.Violations) == 0 {
		return "invalid selection"
	}
	return e.Violations[0]
}

// Violations builds a ValidationError from messages.
func Violations(msgs ...string) *ValidationError {
	return &ValidationError{Violations: msgs}
}
