// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lintcfg/lintcfg/internal/config"
)

// newConfigCommand creates the `lintcfg config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lintcfg configuration",
		Long: `Manage lintcfg configuration.

Configuration is read from lintcfg.cue in:
  - Linux: ~/.config/lintcfg/
  - macOS: ~/Library/Application Support/lintcfg/
  - Windows: %APPDATA%\lintcfg\
or, failing that, the current directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			showConfig(app, loaded)
			return nil
		},
	})

	var printOnly bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				fmt.Fprint(app.stdout, config.GenerateCUE(config.DefaultConfig()))
				return nil
			}
			dir, err := app.configDir()
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			path, written, err := config.CreateDefaultConfig(dir)
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			if written {
				fmt.Fprintf(app.stdout, "%s %s\n", ValueStyle.Render("created"), path)
			} else {
				fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("already exists:"), path)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&printOnly, "print", false, "print the default configuration instead of writing it")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := app.configDir()
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			fmt.Fprintln(app.stdout, config.FilePath(dir))
			return nil
		},
	})

	return cfgCmd
}

func (a *App) configDir() (string, error) {
	if a.configDirOverride != "" {
		return a.configDirOverride, nil
	}
	return config.ConfigDir()
}

func showConfig(app *App, loaded *config.Loaded) {
	out := app.stdout
	cfg := loaded.Config

	kv := func(indent, key, value string) {
		fmt.Fprintf(out, "%s%s: %s\n", indent, KeyStyle.Render(key), value)
	}
	orDefault := func(s, placeholder string) string {
		if s == "" {
			return SubtitleStyle.Render(placeholder)
		}
		return ValueStyle.Render(s)
	}

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	kv("", "Config file", orDefault(loaded.Path, "(using defaults)"))
	fmt.Fprintln(out)

	kv("", "node_env", orDefault(cfg.NodeEnv, "(unset)"))
	kv("", "mode", ValueStyle.Render(cfg.Mode().String()))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("resolve"))
	kv("  ", "anchor", orDefault(cfg.Resolve.Anchor.String(), "(executable directory)"))
	kv("  ", "include_dev_dependencies", ValueStyle.Render(fmt.Sprint(cfg.Resolve.IncludeDevDependencies)))

	layers := make([]string, len(cfg.Preset.Layers))
	for i, l := range cfg.Preset.Layers {
		layers[i] = l.String()
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("preset"))
	kv("  ", "format", ValueStyle.Render(cfg.Preset.Format.String()))
	kv("  ", "layers", orDefault(strings.Join(layers, ", "), "(base only)"))
	kv("  ", "detect_frameworks", ValueStyle.Render(fmt.Sprint(cfg.Preset.DetectFrameworks)))
	kv("  ", "rules_dir", ValueStyle.Render(cfg.Preset.RulesDir))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("ui"))
	kv("  ", "verbose", ValueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}
