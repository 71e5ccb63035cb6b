package service

import (
	"fmt"
	"strings"
)

// FieldError names one violated input field and why it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violated field of a request, not just the
// first one, so form UIs can highlight them all in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid appends a violation and returns the receiver for chaining.
func (e *ValidationError) invalid(field, reason string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
	return e
}

// orNil returns nil when no field was violated, so callers can write
// `if err := v.orNil(); err != nil`.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// TransitionError reports an illegal status transition, e.g. out of "closed".
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %q -> %q", e.From, e.To)
}
