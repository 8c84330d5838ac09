// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lintcfg/lintcfg/pkg/environment"
)

func newEnvCommand(app *App) *cobra.Command {
	var nodeEnv string

	c := &cobra.Command{
		Use:   "env",
		Short: "Show the build mode selected by NODE_ENV",
		Long: `Show whether the build mode is production or development.

"prod" and "production" select production in any letter case, optionally
wrapped in matching single or double quotes. Everything else, including an
unset NODE_ENV, is development. The value comes from --node-env, then the
NODE_ENV environment variable, then node_env in lintcfg.cue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}

			value := loaded.Config.NodeEnv
			if cmd.Flags().Changed("node-env") {
				value = nodeEnv
			}

			mode := environment.ModeFor(value)
			fmt.Fprintln(app.stdout, mode.String())
			if app.verbose {
				fmt.Fprintf(app.stderr, "%s %q\n", SubtitleStyle.Render(environment.VariableName+" value:"), value)
			}
			return nil
		},
	}

	c.Flags().StringVar(&nodeEnv, "node-env", "", "classify this value instead of NODE_ENV")
	return c
}
