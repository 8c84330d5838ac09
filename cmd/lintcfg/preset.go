// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lintcfg/lintcfg/internal/config"
	"github.com/lintcfg/lintcfg/internal/issue"
	"github.com/lintcfg/lintcfg/internal/watch"
	"github.com/lintcfg/lintcfg/pkg/environment"
	"github.com/lintcfg/lintcfg/pkg/manifest"
	"github.com/lintcfg/lintcfg/pkg/preset"
)

type presetFlags struct {
	format   string
	mode     string
	layers   []string
	noDetect bool
	dev      bool
	devSet   bool
	anchor   string
	rulesDir string
	output   string
	watch    bool
}

func newPresetCommand(app *App) *cobra.Command {
	var f presetFlags

	c := &cobra.Command{
		Use:   "preset",
		Short: "Render the composed lint configuration",
		Long: `Render the lint configuration composed from the base rule layers, the
requested optional layers and the framework layers detected in package.json.

In production mode no-console warns and no-debugger, no-alert and
no-warning-comments fail; in development they are relaxed.

With --watch the configuration is rendered again whenever a package.json
above the anchor or the lintcfg.cue in use changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.devSet = cmd.Flags().Changed("dev")
			return runPreset(cmd, app, f)
		},
	}

	c.Flags().StringVarP(&f.format, "format", "f", "", "output format: json, yaml or toml (default from preset.format)")
	c.Flags().StringVar(&f.mode, "mode", "", "production or development (default from NODE_ENV)")
	c.Flags().StringSliceVarP(&f.layers, "layer", "l", nil, "optional layer to add (repeatable)")
	c.Flags().BoolVar(&f.noDetect, "no-detect", false, "do not add framework layers from package.json")
	c.Flags().BoolVar(&f.dev, "dev", false, "also consult devDependencies when detecting frameworks")
	c.Flags().StringVar(&f.anchor, "anchor", "", "directory to search above when detecting frameworks")
	c.Flags().StringVar(&f.rulesDir, "rules-dir", "", "directory holding the rule layer files (default from preset.rules_dir)")
	c.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	c.Flags().BoolVarP(&f.watch, "watch", "w", false, "render again when package.json or lintcfg.cue changes")

	return c
}

func runPreset(cmd *cobra.Command, app *App, f presetFlags) error {
	loaded, data, code, err := app.renderPreset(cmd.Context(), f)
	if err != nil {
		return app.fail(cmd, code, err)
	}
	if err := app.emitPreset(f.output, data); err != nil {
		return app.fail(cmd, ExitFailure, err)
	}
	if !f.watch {
		return nil
	}
	return app.watchPreset(cmd, loaded, f)
}

// renderPreset loads the configuration, applies the flags and renders the
// composed document. The exit code is meaningful only when err is non-nil.
func (a *App) renderPreset(ctx context.Context, f presetFlags) (*config.Loaded, []byte, ExitCode, error) {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, ExitFailure, err
	}
	cfg := loaded.Config

	format := cfg.Preset.Format
	if f.format != "" {
		parsed, err := preset.ParseFormat(f.format)
		if err != nil {
			return nil, nil, ExitUsage, usageError("--format", err, issue.InvalidFormatId)
		}
		format = parsed
	}

	mode := cfg.Mode()
	if f.mode != "" {
		parsed, err := environment.ParseMode(f.mode)
		if err != nil {
			return nil, nil, ExitUsage, usageError("--mode", err, issue.InvalidModeId)
		}
		mode = parsed
	}

	layers := append([]preset.Layer(nil), cfg.Preset.Layers...)
	for _, name := range f.layers {
		l := preset.Layer(name)
		if ok, errs := l.IsValid(); !ok {
			return nil, nil, ExitUsage, usageError("--layer", errs[0], issue.InvalidLayerId)
		}
		layers = append(layers, l)
	}

	opts := preset.Options{Mode: mode, Layers: layers, RulesDir: cfg.Preset.RulesDir}
	if f.rulesDir != "" {
		opts.RulesDir = f.rulesDir
	}

	if cfg.Preset.DetectFrameworks && !f.noDetect {
		includeDev := cfg.Resolve.IncludeDevDependencies
		if f.devSet {
			includeDev = f.dev
		}
		frameworks, err := preset.DetectFrameworks(a.resolver(cfg, f.anchor), includeDev)
		if err != nil {
			code, actionable := resolveFailure("framework", err)
			return nil, nil, code, actionable
		}
		opts.Frameworks = frameworks
	}

	var buf bytes.Buffer
	if err := preset.Render(&buf, preset.Build(opts), format); err != nil {
		return nil, nil, ExitFailure, err
	}
	return loaded, buf.Bytes(), ExitOK, nil
}

// emitPreset writes data to stdout, or to output through the App filesystem.
func (a *App) emitPreset(output string, data []byte) error {
	if output == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := writeOutput(a.Fs, output, data); err != nil {
		return issue.NewErrorContext().
			WithOperation("write preset").
			WithResource(output).
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(a.stderr, "%s %s\n", ValueStyle.Render("wrote"), output)
	return nil
}

// watchPreset re-renders on every manifest or configuration change until the
// command context is canceled. Render failures are logged and the previous
// output is left in place.
func (a *App) watchPreset(cmd *cobra.Command, loaded *config.Loaded, f presetFlags) error {
	dirs, err := a.resolver(loaded.Config, f.anchor).SearchDirs()
	if err != nil {
		code, actionable := resolveFailure("framework", err)
		return a.fail(cmd, code, actionable)
	}
	if loaded.Path != "" {
		dirs = append(dirs, filepath.Dir(loaded.Path))
	}
	if cfgDir, err := a.configDir(); err == nil {
		dirs = append(dirs, cfgDir)
	}
	if a.workDir != "" {
		dirs = append(dirs, a.workDir)
	}

	logger := a.logger("watch")
	w, err := watch.New(watch.Config{
		Dirs:     dirs,
		Patterns: []string{manifest.FileName, config.ConfigFileName + "." + config.ConfigFileExt},
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Debug("re-rendering", "changed", changed)
			_, data, _, err := a.renderPreset(ctx, f)
			if err != nil {
				fmt.Fprintf(a.stderr, "%s Render failed, keeping previous output: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, a.verbose))
				return nil
			}
			return a.emitPreset(f.output, data)
		},
	})
	if err != nil {
		return a.fail(cmd, ExitFailure, issue.NewErrorContext().
			WithOperation("watch for changes").
			WithSuggestion("Raise fs.inotify.max_user_watches if the watch limit was reached").
			Wrap(err).
			BuildError())
	}

	fmt.Fprintf(a.stderr, "%s Watching %d directories for changes (Ctrl+C to stop)...\n", SubtitleStyle.Render("→"), len(w.Dirs()))
	if err := w.Run(cmd.Context()); err != nil {
		return a.fail(cmd, ExitFailure, err)
	}
	return nil
}

func writeOutput(fsys afero.Fs, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

func usageError(flag string, err error, guide issue.Id) error {
	return issue.NewErrorContext().
		WithOperation("parse " + flag).
		WithSuggestion("Run 'lintcfg preset --help' for accepted values").
		WithGuide(guide).
		Wrap(err).
		BuildError()
}
