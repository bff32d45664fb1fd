// Package errors provides the error value types shared by the MSR packages.
//
// Three families exist, matching how the converter reacts to them:
//
//   - ParseError and ValidationError report bad values handed to a
//     constructor or parser. They indicate a bug in the producer of the value,
//     not a problem with the music, and are returned to the caller.
//   - InternalError reports a broken invariant of the score structure (for
//     example appending to a measure that has already been finalized). It
//     aborts the current conversion.
//
// Musical anomalies (overfull measures, overlapping harmonies, ...) are not
// errors at all; they go to the diag package.
package errors

import (
	"fmt"
	"strconv"
)

// ParseError is returned when text cannot be interpreted as a value of Type.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example "Rational").
	Type string

	// Value is the offending text.
	Value string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "msr: invalid " + e.Type + " value: " + strconv.Quote(e.Value)
}

// ValidationError is returned when a value violates a constraint of its type.
type ValidationError struct {
	// Type is the logical name of the validated type.
	Type string

	// Field optionally names the offending field.
	Field string

	// Reason is a short explanation.
	Reason string

	// Value optionally holds the offending value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	name := e.Type
	if e.Field != "" {
		name += "." + e.Field
	}
	if e.Value != nil {
		return fmt.Sprintf("msr: invalid %s: %s (got %v)", name, e.Reason, e.Value)
	}
	return "msr: invalid " + name + ": " + e.Reason
}

// InternalError is returned when an invariant of the score structure is
// broken. It should never be reachable from valid input.
type InternalError struct {
	// Line is the input line number the failing operation was working on, or
	// 0 if unknown.
	Line int

	// Op names the failing operation.
	Op string

	// Reason describes the broken invariant.
	Reason string
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("msr: internal error in %s (line %d): %s", e.Op, e.Line, e.Reason)
	}
	return fmt.Sprintf("msr: internal error in %s: %s", e.Op, e.Reason)
}

// Internalf builds an InternalError with a formatted reason.
func Internalf(line int, op, format string, args ...any) *InternalError {
	return &InternalError{
		Line:   line,
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
	}
}
