// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lintcfg/lintcfg/pkg/depversion"
)

func newResolveCommand(app *App) *cobra.Command {
	var (
		dev     bool
		anchor  string
		explain bool
	)

	c := &cobra.Command{
		Use:   "resolve <package>",
		Short: "Print the minimum declared version of a dependency",
		Long: `Print the lowest version satisfying the range declared for a package.

The search starts in the parent of the anchor directory (by default the
directory holding the lintcfg executable) and walks up to the filesystem
root. The nearest package.json declaring the package wins. When none does,
0.0.0 is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}

			includeDev := loaded.Config.Resolve.IncludeDevDependencies
			if cmd.Flags().Changed("dev") {
				includeDev = dev
			}

			res, err := app.resolver(loaded.Config, anchor).Lookup(args[0], includeDev)
			if err != nil {
				code, actionable := resolveFailure(args[0], err)
				return app.fail(cmd, code, actionable)
			}

			if explain {
				printResolution(app, res)
				return nil
			}
			fmt.Fprintln(app.stdout, res.Version.String())
			return nil
		},
	}

	c.Flags().BoolVar(&dev, "dev", false, "also consult devDependencies (default from resolve.include_dev_dependencies)")
	c.Flags().StringVar(&anchor, "anchor", "", "directory to search above (default from resolve.anchor, then the executable directory)")
	c.Flags().BoolVar(&explain, "explain", false, "also print where the version came from")

	return c
}

func printResolution(app *App, res *depversion.Resolution) {
	row := func(key, value string) {
		fmt.Fprintf(app.stdout, "%s %s\n", KeyStyle.Render(fmt.Sprintf("%-9s", key+":")), value)
	}

	row("package", res.Package)
	row("version", ValueStyle.Render(res.Version.String()))
	row("anchor", res.Anchor)
	if !res.Found {
		row("manifest", WarningStyle.Render("(not declared in any ancestor package.json)"))
		return
	}
	row("manifest", res.ManifestPath)
	row("scope", string(res.Scope))
	row("range", res.Range.String())
}
