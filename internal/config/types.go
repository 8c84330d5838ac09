// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lintcfg/lintcfg/pkg/environment"
	"github.com/lintcfg/lintcfg/pkg/preset"
)

var (
	// ErrInvalidAnchorPath is returned when an AnchorPath is whitespace-only.
	ErrInvalidAnchorPath = errors.New("invalid anchor path")
	// ErrInvalidPresetConfig is the sentinel error wrapped by InvalidPresetConfigError.
	ErrInvalidPresetConfig = errors.New("invalid preset config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// AnchorPath is the directory the dependency search starts above.
	// Empty means the executable's directory.
	AnchorPath string

	// InvalidAnchorPathError is returned when an AnchorPath is set but blank.
	InvalidAnchorPathError struct {
		Value AnchorPath
	}

	// ResolveConfig configures dependency version lookups.
	ResolveConfig struct {
		Anchor                 AnchorPath `json:"anchor" mapstructure:"anchor"`
		IncludeDevDependencies bool       `json:"include_dev_dependencies" mapstructure:"include_dev_dependencies"`
	}

	// PresetConfig configures shareable config generation.
	PresetConfig struct {
		Format           preset.Format  `json:"format" mapstructure:"format"`
		Layers           []preset.Layer `json:"layers" mapstructure:"layers"`
		DetectFrameworks bool           `json:"detect_frameworks" mapstructure:"detect_frameworks"`
		RulesDir         string         `json:"rules_dir" mapstructure:"rules_dir"`
	}

	// InvalidPresetConfigError collects the field errors of a PresetConfig.
	InvalidPresetConfigError struct {
		FieldErrors []error
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the application configuration.
	Config struct {
		// NodeEnv holds a NODE_ENV-style value; see Mode.
		NodeEnv string        `json:"node_env" mapstructure:"node_env"`
		Resolve ResolveConfig `json:"resolve" mapstructure:"resolve"`
		Preset  PresetConfig  `json:"preset" mapstructure:"preset"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Preset: PresetConfig{
			Format:           preset.FormatJSON,
			Layers:           []preset.Layer{},
			DetectFrameworks: true,
			RulesDir:         preset.DefaultRulesDir,
		},
	}
}

// Mode returns the build mode NodeEnv selects.
func (c *Config) Mode() environment.Mode {
	return environment.ModeFor(c.NodeEnv)
}

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Resolve.Anchor.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Preset.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid returns whether the format and every layer are known.
func (c PresetConfig) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Format.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	for _, l := range c.Layers {
		if ok, fieldErrs := l.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPresetConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid returns whether the AnchorPath is empty or a non-blank path.
func (p AnchorPath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidAnchorPathError{Value: p}}
	}
	return true, nil
}

// String returns the string representation of the AnchorPath.
func (p AnchorPath) String() string { return string(p) }

// Error implements the error interface.
func (e *InvalidAnchorPathError) Error() string {
	return fmt.Sprintf("invalid anchor path %q: must not be blank", e.Value)
}

// Unwrap returns ErrInvalidAnchorPath for errors.Is() compatibility.
func (e *InvalidAnchorPathError) Unwrap() error { return ErrInvalidAnchorPath }

// Error implements the error interface.
func (e *InvalidPresetConfigError) Error() string {
	return "invalid preset config: " + joinErrors(e.FieldErrors)
}

// Unwrap returns the sentinel and the field errors so errors.Is matches both.
func (e *InvalidPresetConfigError) Unwrap() []error {
	return append([]error{ErrInvalidPresetConfig}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), joinErrors(e.FieldErrors))
}

// Unwrap returns the sentinel and the field errors so errors.Is matches both.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
