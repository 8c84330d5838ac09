// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

// ErrInvalidWatchConfig is the sentinel wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are watched non-recursively. Directories that do not exist
		// are skipped.
		Dirs []string

		// Patterns are doublestar patterns matched against the base name of
		// the changed file, e.g. "package.json" or "*.cue". An empty slice
		// matches every non-ignored file.
		Patterns []string

		// Ignore patterns are matched the same way and merged with the
		// built-in editor and OS noise patterns.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted absolute paths that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger reports skipped directories and callback failures. nil
		// discards them.
		Logger *log.Logger
	}

	// InvalidWatchConfigError lists every problem found in a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Validate reports blank directories and malformed patterns.
func (c Config) Validate() error {
	var errs []error
	for i, dir := range c.Dirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("dirs[%d]: must not be blank", i))
		}
	}
	errs = append(errs, validatePatterns("patterns", c.Patterns)...)
	errs = append(errs, validatePatterns("ignore", c.Ignore)...)
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for i, pat := range patterns {
		switch {
		case strings.TrimSpace(pat) == "":
			errs = append(errs, fmt.Errorf("%s[%d]: must not be blank", field, i))
		case !doublestar.ValidatePattern(pat):
			errs = append(errs, fmt.Errorf("%s[%d]: invalid glob %q", field, i, pat))
		}
	}
	return errs
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d field error(s): %s", ErrInvalidWatchConfig, len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }
