// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/lintcfg/lintcfg/internal/issue"
	"github.com/lintcfg/lintcfg/pkg/environment"
)

const (
	// AppName is the application name.
	AppName = "lintcfg"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "lintcfg"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// maxConfigFileSize bounds what loadCUEIntoViper will parse.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the lintcfg configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	var base string

	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// FilePath returns the config file path inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions loads defaults, then the first config file found, then the
// NODE_ENV override. It returns the config and the file it came from.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("node_env", defaults.NodeEnv)
	v.SetDefault("resolve.anchor", string(defaults.Resolve.Anchor))
	v.SetDefault("resolve.include_dev_dependencies", defaults.Resolve.IncludeDevDependencies)
	v.SetDefault("preset.format", string(defaults.Preset.Format))
	v.SetDefault("preset.layers", defaults.Preset.Layers)
	v.SetDefault("preset.detect_frameworks", defaults.Preset.DetectFrameworks)
	v.SetDefault("preset.rules_dir", defaults.Preset.RulesDir)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	if err := v.BindEnv("node_env", environment.VariableName); err != nil {
		return nil, "", fmt.Errorf("bind %s: %w", environment.VariableName, err)
	}

	path, err := locateConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", loadError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Run 'lintcfg config show' to see the effective values").
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

// locateConfigFile picks the file to load: an explicit path (which must
// exist), else the config directory, else the working directory. An empty
// result means "defaults only".
func locateConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'lintcfg config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	candidates := []string{FilePath(cfgDir), FilePath(opts.WorkDir)}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the lintcfg.cue schema").
		WithGuide(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so validation does not require concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to dir unless a
// config file is already there. It returns the file path and whether it
// was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	path := FilePath(dir)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a lintcfg.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// lintcfg configuration\n\n")

	if cfg.NodeEnv != "" {
		fmt.Fprintf(&sb, "node_env: %q\n\n", cfg.NodeEnv)
	}

	sb.WriteString("resolve: {\n")
	if cfg.Resolve.Anchor != "" {
		fmt.Fprintf(&sb, "\tanchor: %q\n", cfg.Resolve.Anchor)
	}
	fmt.Fprintf(&sb, "\tinclude_dev_dependencies: %v\n", cfg.Resolve.IncludeDevDependencies)
	sb.WriteString("}\n\n")

	sb.WriteString("preset: {\n")
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Preset.Format)
	layers := make([]string, len(cfg.Preset.Layers))
	for i, l := range cfg.Preset.Layers {
		layers[i] = fmt.Sprintf("%q", l)
	}
	fmt.Fprintf(&sb, "\tlayers: [%s]\n", strings.Join(layers, ", "))
	fmt.Fprintf(&sb, "\tdetect_frameworks: %v\n", cfg.Preset.DetectFrameworks)
	if cfg.Preset.RulesDir != "" {
		fmt.Fprintf(&sb, "\trules_dir: %q\n", cfg.Preset.RulesDir)
	}
	sb.WriteString("}\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
