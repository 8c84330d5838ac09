// SPDX-License-Identifier: MPL-2.0

package semverrange

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpr is the sentinel error wrapped by InvalidExprError.
	ErrInvalidExpr = errors.New("invalid version range")
	// ErrNoSatisfyingVersion is returned by MinVersion when no version can
	// satisfy the range (e.g. ">2 <1").
	ErrNoSatisfyingVersion = errors.New("no version satisfies range")
)

type (
	// Expr is a raw version range expression as written in a manifest
	// (e.g., "^2.6.0", "~1.2.3", ">=1.0.0 <2.0.0", "1.x").
	Expr string

	// InvalidExprError is returned when an Expr cannot be parsed.
	// It wraps ErrInvalidExpr for errors.Is() compatibility.
	InvalidExprError struct {
		Value Expr
		// Token is the offending part of the expression, if known.
		Token string
	}
)

// Error implements the error interface.
func (e *InvalidExprError) Error() string {
	if e.Token != "" && e.Token != string(e.Value) {
		return fmt.Sprintf("invalid version range %q: bad comparator %q", e.Value, e.Token)
	}
	return fmt.Sprintf("invalid version range %q", e.Value)
}

// Unwrap returns ErrInvalidExpr so callers can use errors.Is for programmatic detection.
func (e *InvalidExprError) Unwrap() error { return ErrInvalidExpr }

// String returns the string representation of the Expr.
func (e Expr) String() string { return string(e) }

// IsValid returns whether the Expr parses as a version range,
// and a list of validation errors if it does not.
func (e Expr) IsValid() (bool, []error) {
	if _, err := Parse(string(e)); err != nil {
		return false, []error{err}
	}
	return true, nil
}
