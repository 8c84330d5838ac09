// SPDX-License-Identifier: MPL-2.0

// Package environment classifies NODE_ENV-style values. It never reads the
// process environment itself; callers pass the value in.
package environment

import (
	"errors"
	"fmt"
	"strings"
)

// VariableName is the environment variable conventionally holding the mode.
const VariableName = "NODE_ENV"

const (
	// ModeDevelopment is every mode that is not production.
	ModeDevelopment Mode = "development"
	// ModeProduction enables the stricter rule severities.
	ModeProduction Mode = "production"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid mode")

type (
	// Mode is the build mode rule severities are chosen for.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}
)

// IsProduction reports whether value names production: "prod" or
// "production" in any letter case, optionally wrapped in a matching pair of
// single or double quotes. Surrounding whitespace is not trimmed.
func IsProduction(value string) bool {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			value = value[1 : len(value)-1]
		}
	}
	return strings.EqualFold(value, "prod") || strings.EqualFold(value, "production")
}

// ModeFor maps a NODE_ENV-style value to a Mode.
func ModeFor(value string) Mode {
	if IsProduction(value) {
		return ModeProduction
	}
	return ModeDevelopment
}

// ParseMode accepts the canonical mode names plus anything ModeFor
// recognizes as production ("prod", quoted forms). Empty means development.
func ParseMode(s string) (Mode, error) {
	switch {
	case s == "":
		return ModeDevelopment, nil
	case IsProduction(s):
		return ModeProduction, nil
	case strings.EqualFold(s, "development"), strings.EqualFold(s, "dev"):
		return ModeDevelopment, nil
	}
	return "", &InvalidModeError{Value: Mode(s)}
}

// IsProduction reports whether m is ModeProduction.
func (m Mode) IsProduction() bool { return m == ModeProduction }

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the defined modes,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeDevelopment, ModeProduction:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (valid: development, production)", e.Value)
}

// Unwrap returns ErrInvalidMode so callers can use errors.Is for programmatic detection.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }
