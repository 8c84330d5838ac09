// SPDX-License-Identifier: MPL-2.0

package preset

import (
	"errors"
	"fmt"
)

const (
	// Off disables a rule.
	Off Severity = 0
	// Warn reports a rule violation without failing the run.
	Warn Severity = 1
	// Error reports a rule violation and fails the run.
	Error Severity = 2
)

// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
var ErrInvalidSeverity = errors.New("invalid severity")

type (
	// Severity is a rule level in its numeric form.
	Severity int

	// InvalidSeverityError is returned when a Severity is outside 0..2.
	InvalidSeverityError struct {
		Value Severity
	}

	// RuleEntry is a rule's severity plus optional rule options.
	RuleEntry struct {
		Severity Severity
		Options  []any
	}
)

// IsValid returns whether the Severity is Off, Warn or Error.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case Off, Warn, Error:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// String returns the symbolic name of the Severity.
func (s Severity) String() string {
	switch s {
	case Off:
		return "off"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %d (valid: 0, 1, 2)", int(e.Value))
}

// Unwrap returns ErrInvalidSeverity so callers can use errors.Is for programmatic detection.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Level returns a RuleEntry without options.
func Level(s Severity) RuleEntry {
	return RuleEntry{Severity: s}
}

// value is the config form: a bare number, or [severity, options...].
func (r RuleEntry) value() any {
	if len(r.Options) == 0 {
		return int(r.Severity)
	}
	out := make([]any, 0, 1+len(r.Options))
	out = append(out, int(r.Severity))
	return append(out, r.Options...)
}
