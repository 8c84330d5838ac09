// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/lintcfg/lintcfg/pkg/preset"
)

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DefaultConfig().IsValid(); !ok {
		t.Fatalf("DefaultConfig().IsValid() = false: %v", errs)
	}

	cfg := DefaultConfig()
	cfg.Resolve.Anchor = "   "
	cfg.Preset.Format = "xml"
	cfg.Preset.Layers = []preset.Layer{preset.LayerVue, "angular"}

	ok, errs := cfg.IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v; want one InvalidConfigError", ok, errs)
	}
	err := errs[0]
	for _, target := range []error{ErrInvalidConfig, ErrInvalidAnchorPath, ErrInvalidPresetConfig, preset.ErrInvalidFormat, preset.ErrInvalidLayer} {
		if !errors.Is(err, target) {
			t.Errorf("errors.Is(%v, %v) = false", err, target)
		}
	}

	var ce *InvalidConfigError
	if !errors.As(err, &ce) || len(ce.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want anchor and preset errors", ce)
	}
}

func TestAnchorPath_IsValid(t *testing.T) {
	t.Parallel()

	for _, p := range []AnchorPath{"", "/opt", "relative/dir"} {
		if ok, _ := p.IsValid(); !ok {
			t.Errorf("AnchorPath(%q).IsValid() = false", p)
		}
	}
	if ok, _ := AnchorPath(" \t").IsValid(); ok {
		t.Error("blank AnchorPath should be invalid")
	}
}

func TestFormatCUEError(t *testing.T) {
	t.Parallel()

	if formatCUEError(nil, "x.cue") != nil {
		t.Error("formatCUEError(nil) should be nil")
	}

	plain := errors.New("boom")
	err := formatCUEError(plain, "x.cue")
	if !errors.Is(err, plain) {
		t.Errorf("formatCUEError(plain) = %v, want it to wrap the cause", err)
	}
	if err.Error() != "x.cue: boom" {
		t.Errorf("formatCUEError(plain) = %q, want %q", err.Error(), "x.cue: boom")
	}

	cueErr := cueerrors.Newf(token.NoPos, "conflicting values")
	if got := formatCUEError(cueErr, "x.cue").Error(); got != "x.cue: conflicting values" {
		t.Errorf("formatCUEError(cue) = %q, want %q", got, "x.cue: conflicting values")
	}
}

func TestFieldPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"ui", "verbose"}, "ui.verbose"},
		{[]string{"preset", "layers", "1"}, "preset.layers[1]"},
		{[]string{"0"}, "0"},
	}
	for _, tt := range tests {
		if got := fieldPath(tt.in); got != tt.want {
			t.Errorf("fieldPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
