// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lintcfg/lintcfg/internal/config"
	"github.com/lintcfg/lintcfg/internal/issue"
	"github.com/lintcfg/lintcfg/pkg/depversion"
	"github.com/lintcfg/lintcfg/pkg/semverrange"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App is the composition root of the CLI. Command handlers read
	// configuration and touch the filesystem only through it.
	App struct {
		Config config.Provider
		Fs     afero.Fs
		stdout io.Writer
		stderr io.Writer

		// Global flag values.
		verbose    bool
		configPath string

		workDir           string
		configDirOverride string
	}

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
		// WorkDir is where a local lintcfg.cue is looked for.
		WorkDir string
		// ConfigDir overrides the platform config directory.
		ConfigDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{
		Config:            deps.Config,
		Fs:                deps.Fs,
		stdout:            deps.Stdout,
		stderr:            deps.Stderr,
		workDir:           deps.WorkDir,
		configDirOverride: deps.ConfigDir,
	}
}

// newRootCommand builds the command tree bound to app.
func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "lintcfg",
		Short: "Shareable lint config with dependency-aware rules",
		Long: TitleStyle.Render("lintcfg") + SubtitleStyle.Render(" - shareable lint config with dependency-aware rules") + `

lintcfg composes a lint configuration from rule layers. A few rules get
stricter in production, and framework layers are added for the Vue and
React versions the enclosing project declares in package.json.

` + SubtitleStyle.Render("Examples:") + `
  lintcfg resolve vue            Minimum declared version of vue
  lintcfg resolve react --dev    Also consult devDependencies
  lintcfg env                    Show whether NODE_ENV means production
  lintcfg preset --format yaml   Render the composed config
  lintcfg config show            Show the effective configuration`,
		SilenceUsage: true,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/lintcfg/lintcfg.cue)")

	root.AddCommand(
		newResolveCommand(app),
		newEnvCommand(app),
		newPresetCommand(app),
		newConfigCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the command's exit code.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(ExitFailure))
	}
}

// loadConfig loads configuration honoring --config, and applies ui.verbose
// when --verbose was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Loaded, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.configPath,
		ConfigDirPath:  a.configDirOverride,
		WorkDir:        a.workDir,
	})
	if err != nil {
		return nil, err
	}
	if !a.verbose {
		a.verbose = loaded.Config.UI.Verbose
	}
	return loaded, nil
}

// logger returns a stderr logger at debug level when verbose.
func (a *App) logger(prefix string) *log.Logger {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{Prefix: prefix, Level: level})
}

// resolver builds a resolver for the anchor from the flag, the config or,
// when both are empty, the executable directory.
func (a *App) resolver(cfg *config.Config, anchorFlag string) *depversion.Resolver {
	opts := []depversion.Option{
		depversion.WithFs(a.Fs),
		depversion.WithLogger(a.logger("depversion")),
	}
	anchor := anchorFlag
	if anchor == "" {
		anchor = string(cfg.Resolve.Anchor)
	}
	if anchor != "" {
		opts = append(opts, depversion.WithAnchor(anchor))
	}
	return depversion.New(opts...)
}

// fail reports err on stderr and returns the ExitError the command should
// return. ActionableErrors get their suggestions and, in verbose mode, their
// Markdown guide.
func (a *App) fail(cmd *cobra.Command, code ExitCode, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	var ae *issue.ActionableError
	if a.verbose && errors.As(err, &ae) && ae.Guide != 0 {
		if guide := issue.Get(ae.Guide); guide != nil {
			if rendered, renderErr := guide.Render("auto"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			} else {
				a.logger("lintcfg").Warn("failed to render guide", "guide", ae.Guide, "err", renderErr)
			}
		}
	}

	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// resolveFailure turns a resolver error into an actionable one plus the
// exit code it maps to.
func resolveFailure(name string, err error) (ExitCode, error) {
	ctx := issue.NewErrorContext().
		WithOperation("resolve dependency version").
		WithResource(name).
		Wrap(err)

	var exprErr *semverrange.InvalidExprError
	switch {
	case errors.Is(err, depversion.ErrEmptyPackageName):
		ctx.WithSuggestion("Pass the npm package name, e.g. 'lintcfg resolve vue'").
			WithGuide(issue.EmptyPackageNameId)
		return ExitUsage, ctx.BuildError()
	case errors.As(err, &exprErr):
		ctx.WithSuggestion(fmt.Sprintf("Fix the version range %q in the nearest package.json declaring %s", exprErr.Value, name)).
			WithGuide(issue.InvalidRangeId)
	case errors.Is(err, depversion.ErrNoAnchor):
		ctx.WithSuggestion("Pass --anchor DIR or set resolve.anchor in lintcfg.cue").
			WithGuide(issue.AnchorUnavailableId)
	}
	return ExitFailure, ctx.BuildError()
}
