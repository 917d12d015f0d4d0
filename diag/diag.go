// Package diag carries the two error classes of a planning run: accumulated
// configuration diagnostics, and internal-consistency failures that abort the run.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
	SeverityFatal
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "none"
	}
}

// Diagnostic codes raised by the planner.
const (
	CodeUnknownType      = "unknown_type"
	CodeMissingOverride  = "missing_override"
	CodeUnresolvedRef    = "unresolved_reference"
	CodeNameConflict     = "name_conflict"
	CodeEmptyDefinition  = "empty_definition"
	CodeDuplicateDefName = "duplicate_definition"
)

// Diagnostic is a single configuration or data problem found during a run.
type Diagnostic struct {
	Severity Severity

	// Code is a machine-readable identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Component names the schema component that triggered the diagnostic, if any.
	Component string
}

// String formats the diagnostic as "severity: code: message (component)".
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Code)
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Component != "" {
		b.WriteString(" (")
		b.WriteString(d.Component)
		b.WriteString(")")
	}
	return b.String()
}

// List accumulates diagnostics for one run.
// The zero value is ready to use.
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Warnf adds a warning.
func (l *List) Warnf(code, component, format string, args ...any) {
	l.Add(Diagnostic{Severity: SeverityWarning, Code: code, Component: component, Message: fmt.Sprintf(format, args...)})
}

// Errorf adds an error.
func (l *List) Errorf(code, component, format string, args ...any) {
	l.Add(Diagnostic{Severity: SeverityError, Code: code, Component: component, Message: fmt.Sprintf(format, args...)})
}

// Fatalf adds a fatal diagnostic.
func (l *List) Fatalf(code, component, format string, args ...any) {
	l.Add(Diagnostic{Severity: SeverityFatal, Code: code, Component: component, Message: fmt.Sprintf(format, args...)})
}

// Items returns a copy of the accumulated diagnostics in insertion order.
func (l *List) Items() []Diagnostic {
	out := make([]Diagnostic, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of diagnostics.
func (l *List) Len() int { return len(l.items) }

// Max returns the highest severity seen, or 0 when the list is empty.
func (l *List) Max() Severity {
	var max Severity
	for _, d := range l.items {
		if d.Severity > max {
			max = d.Severity
		}
	}
	return max
}

// Failed reports whether the run should be treated as failed.
func (l *List) Failed() bool {
	return l.Max() >= SeverityError
}

// Merge appends all diagnostics from other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// ErrInternal is matched by every InternalError via errors.Is.
var ErrInternal = errors.New("internal consistency failure")

// InternalError reports a generator-logic failure: passes ran out of order or an
// invariant was violated. It is never recoverable within a run.
type InternalError struct {
	// Op is the operation that detected the failure (e.g. "inline", "freeze").
	Op string

	// Subject identifies the item or definition involved.
	Subject string

	// Msg describes the violated invariant.
	Msg string
}

func (e *InternalError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Subject, e.Msg)
}

// Is reports whether target is ErrInternal.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// Internalf builds an InternalError with a formatted message.
func Internalf(op, subject, format string, args ...any) *InternalError {
	return &InternalError{Op: op, Subject: subject, Msg: fmt.Sprintf(format, args...)}
}
