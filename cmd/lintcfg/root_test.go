// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/lintcfg/lintcfg/internal/config"
	"github.com/lintcfg/lintcfg/internal/testutil"
	"github.com/lintcfg/lintcfg/pkg/environment"
)

const libDir = "/proj/packages/foo/lib"

type harness struct {
	app    *App
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	cfgDir string
}

// newHarness returns an App over an in-memory project tree:
//
//	/proj/package.json               react ~16.8 (dev), vue ^2.6.0
//	/proj/packages/foo/package.json  vue ^3.0.1
//	/proj/packages/foo/lib/          anchor
//
// Tests pass --anchor explicitly since the default anchor is the test binary's directory.
func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(environment.VariableName, "")

	memFs := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/package.json":              `{"dependencies": {"vue": "^2.6.0"}, "devDependencies": {"react": "~16.8"}}`,
		"/proj/packages/foo/package.json": `{"dependencies": {"vue": "^3.0.1"}}`,
		"/proj/packages/bad/package.json": `{"dependencies": {"vue": "latest"}}`,
	}
	for path, content := range files {
		if err := afero.WriteFile(memFs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := memFs.MkdirAll(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := memFs.MkdirAll("/proj/packages/bad/lib", 0o755); err != nil {
		t.Fatal(err)
	}

	h := &harness{fs: memFs, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, cfgDir: t.TempDir()}
	h.app = NewApp(Dependencies{
		Fs:        memFs,
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		WorkDir:   t.TempDir(),
		ConfigDir: h.cfgDir,
	})
	return h
}

func (h *harness) run(args ...string) error {
	root := newRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func exitCode(t *testing.T, err error) ExitCode {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an *ExitError", err)
	}
	return exitErr.Code
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nearest manifest wins", []string{"resolve", "vue", "--anchor", libDir}, "3.0.1"},
		{"undeclared package", []string{"resolve", "lodash", "--anchor", libDir}, "0.0.0"},
		{"dev dependency ignored by default", []string{"resolve", "react", "--anchor", libDir}, "0.0.0"},
		{"dev dependency with --dev", []string{"resolve", "react", "--dev", "--anchor", libDir}, "16.8.0"},
		{"anchor above the inner manifest", []string{"resolve", "vue", "--anchor", "/proj/packages"}, "2.6.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.run(tt.args...); err != nil {
				t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
			}
			if got := strings.TrimSpace(h.stdout.String()); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCommand_DevFromConfig(t *testing.T) {
	h := newHarness(t)
	testutil.MustWriteFile(t, config.FilePath(h.cfgDir), []byte(`resolve: {
	anchor: "`+libDir+`"
	include_dev_dependencies: true
}`))

	if err := h.run("resolve", "react"); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "16.8.0" {
		t.Errorf("stdout = %q, want 16.8.0", got)
	}

	h.stdout.Reset()
	if err := h.run("resolve", "react", "--dev=false"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "0.0.0" {
		t.Errorf("--dev=false should override the config, got %q", got)
	}
}

func TestResolveCommand_Explain(t *testing.T) {
	h := newHarness(t)
	if err := h.run("resolve", "vue", "--anchor", libDir, "--explain"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"3.0.1", "/proj/packages/foo/package.json", "dependencies", "^3.0.1", libDir} {
		if !strings.Contains(out, want) {
			t.Errorf("--explain output missing %q:\n%s", want, out)
		}
	}

	h.stdout.Reset()
	if err := h.run("resolve", "lodash", "--anchor", libDir, "--explain"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "not declared") {
		t.Errorf("--explain should say the package is not declared:\n%s", h.stdout)
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	t.Run("malformed range", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("resolve", "vue", "--anchor", "/proj/packages/bad/lib")
		if code := exitCode(t, err); code != ExitFailure {
			t.Errorf("exit code = %d, want %d", code, ExitFailure)
		}
		if !strings.Contains(h.stderr.String(), `Fix the version range "latest"`) {
			t.Errorf("stderr should suggest fixing the range:\n%s", h.stderr)
		}
	})

	t.Run("empty package name", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("resolve", "", "--anchor", libDir)
		if code := exitCode(t, err); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("verbose shows guide", func(t *testing.T) {
		h := newHarness(t)
		_ = h.run("resolve", "vue", "-v", "--anchor", "/proj/packages/bad/lib")
		if !strings.Contains(h.stderr.String(), "Invalid version range") {
			t.Errorf("verbose stderr should include the guide:\n%s", h.stderr)
		}
	})
}

func TestEnvCommand(t *testing.T) {
	tests := []struct {
		name    string
		nodeEnv string
		unset   bool
		args    []string
		want    environment.Mode
	}{
		{"unset", "", true, []string{"env"}, environment.ModeDevelopment},
		{"empty", "", false, []string{"env"}, environment.ModeDevelopment},
		{"NODE_ENV production", "production", false, []string{"env"}, environment.ModeProduction},
		{"NODE_ENV quoted", `'prod'`, false, []string{"env"}, environment.ModeProduction},
		{"NODE_ENV test", "test", false, []string{"env"}, environment.ModeDevelopment},
		{"flag wins", "production", false, []string{"env", "--node-env", "development"}, environment.ModeDevelopment},
		{"flag without variable", "", true, []string{"env", "--node-env", "PRODUCTION"}, environment.ModeProduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.unset {
				t.Cleanup(testutil.MustUnsetenv(t, environment.VariableName))
			} else {
				t.Cleanup(testutil.MustSetenv(t, environment.VariableName, tt.nodeEnv))
			}

			if err := h.run(tt.args...); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if got := strings.TrimSpace(h.stdout.String()); got != string(tt.want) {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func decodePreset(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("preset output is not JSON: %v\n%s", err, data)
	}
	return doc
}

func TestPresetCommand(t *testing.T) {
	h := newHarness(t)
	if err := h.run("preset", "--anchor", libDir, "--dev", "--mode", "production", "--layer", "jsdoc"); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
	}

	doc := decodePreset(t, h.stdout.Bytes())
	extends := doc["extends"].([]any)
	joined := make([]string, len(extends))
	for i, e := range extends {
		joined[i] = e.(string)
	}
	all := strings.Join(joined, " ")
	for _, want := range []string{"./rules/possible-errors", "./rules/jsdoc", "plugin:vue/vue3-recommended", "./rules/vue", "./rules/react"} {
		if !strings.Contains(all, want) {
			t.Errorf("extends missing %s: %v", want, joined)
		}
	}

	rules := doc["rules"].(map[string]any)
	if rules["no-debugger"] != float64(2) || rules["no-console"] != float64(1) {
		t.Errorf("production rules = %v", rules)
	}
	react := doc["settings"].(map[string]any)["react"].(map[string]any)
	if react["version"] != "16.8.0" {
		t.Errorf("settings.react = %v", react)
	}
}

func TestPresetCommand_NoDetectDevelopment(t *testing.T) {
	h := newHarness(t)
	if err := h.run("preset", "--no-detect"); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
	}
	doc := decodePreset(t, h.stdout.Bytes())
	if len(doc["extends"].([]any)) != 7 {
		t.Errorf("extends = %v, want base layers only", doc["extends"])
	}
	rules := doc["rules"].(map[string]any)
	if rules["no-debugger"] != float64(0) {
		t.Errorf("development no-debugger = %v, want 0", rules["no-debugger"])
	}
}

func TestPresetCommand_Vue2FromOuterManifest(t *testing.T) {
	h := newHarness(t)
	if err := h.run("preset", "--anchor", "/proj/packages", "--format", "yaml"); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "plugin:vue/recommended") || strings.Contains(out, "vue3-recommended") {
		t.Errorf("vue 2 should use plugin:vue/recommended:\n%s", out)
	}
}

func TestPresetCommand_Output(t *testing.T) {
	h := newHarness(t)
	if err := h.run("preset", "--no-detect", "--format", "toml", "-o", "/out/eslintrc.toml"); err != nil {
		t.Fatalf("run() error = %v\nstderr: %s", err, h.stderr)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout should be empty with --output, got %q", h.stdout)
	}
	data, err := afero.ReadFile(h.fs, "/out/eslintrc.toml")
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "extends") {
		t.Errorf("TOML output missing extends:\n%s", data)
	}
}

func TestPresetCommand_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"preset", "--no-detect", "--format", "xml"}},
		{"mode", []string{"preset", "--no-detect", "--mode", "staging"}},
		{"layer", []string{"preset", "--no-detect", "--layer", "angular"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run(tt.args...)
			if code := exitCode(t, err); code != ExitUsage {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitUsage, h.stderr)
			}
			if h.stdout.Len() != 0 {
				t.Errorf("nothing should be rendered on error, got %q", h.stdout)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	if err := h.run("config", "path"); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != config.FilePath(h.cfgDir) {
		t.Errorf("config path = %q, want %q", got, config.FilePath(h.cfgDir))
	}

	h.stdout.Reset()
	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "(using defaults)") {
		t.Errorf("config show should report defaults:\n%s", h.stdout)
	}

	h.stdout.Reset()
	if err := h.run("config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "created") {
		t.Errorf("config init output = %q", h.stdout)
	}

	h.stdout.Reset()
	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, config.FilePath(h.cfgDir)) || !strings.Contains(out, "detect_frameworks") {
		t.Errorf("config show should report the created file:\n%s", out)
	}
}

func TestConfigInit_Print(t *testing.T) {
	h := newHarness(t)
	if err := h.run("config", "init", "--print"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "preset: {") {
		t.Errorf("--print output = %q", h.stdout)
	}
	if _, err := os.Stat(config.FilePath(h.cfgDir)); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("--print should not write a file, Stat error = %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	h := newHarness(t)
	testutil.MustWriteFile(t, config.FilePath(h.cfgDir), []byte(`preset: format: "xml"`))

	err := h.run("env")
	if code := exitCode(t, err); code != ExitFailure {
		t.Errorf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(h.stderr.String(), "preset.format") {
		t.Errorf("stderr should name the bad field:\n%s", h.stderr)
	}
}

func TestExplicitConfigFlag(t *testing.T) {
	h := newHarness(t)
	custom := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, custom, []byte(`node_env: "prod"`))

	if err := h.run("env", "--config", custom); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "production" {
		t.Errorf("stdout = %q, want production", got)
	}
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: mutates package-level Version/Commit/BuildDate.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-06-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q, want dev fallback", got)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := &ExitError{Code: ExitUsage, Err: inner}
	if err.Error() != "boom" || !errors.Is(err, inner) {
		t.Errorf("ExitError = %v", err)
	}
	if (&ExitError{Code: 3}).Error() != "exit status 3" {
		t.Error("ExitError without Err should report the status")
	}
}
