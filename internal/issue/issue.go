// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Guide identifiers. Zero means "no guide".
const (
	ConfigLoadFailedId Id = iota + 1
	EmptyPackageNameId
	InvalidRangeId
	AnchorUnavailableId
	InvalidFormatId
	InvalidLayerId
	InvalidModeId
)

type (
	// Id identifies a guide.
	Id int

	// MarkdownMsg is guide text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a Markdown guide shown when a known failure happens.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

// Id returns the guide identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the guide for a terminal using the given glamour style
// ("dark", "light", "notty", "auto" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.extLinks) > 0 {
		var b strings.Builder
		b.WriteString(md)
		b.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			b.WriteString("- <" + string(link) + ">\n")
		}
		md = b.String()
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The configuration file exists but is not valid for lintcfg.

## Things you can try:
- Print the effective configuration:
~~~
$ lintcfg config show
~~~
- Compare your file with a fresh default one:
~~~
$ lintcfg config init --print
~~~

## Example lintcfg.cue:
~~~cue
node_env: "development"
resolve: {
	include_dev_dependencies: true
}
preset: {
	format: "json"
	layers: ["es-module", "jsdoc"]
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	emptyPackageNameIssue = &Issue{
		id: EmptyPackageNameId,
		mdMsg: `
# No package name given

A dependency lookup needs the npm package name, exactly as it appears in
package.json (for example ` + "`vue`" + ` or ` + "`@babel/core`" + `).`,
	}

	invalidRangeIssue = &Issue{
		id: InvalidRangeId,
		mdMsg: `
# Invalid version range

The nearest package.json declaring the package has a version range that
cannot be parsed.

## Things you can try:
- Use an npm range such as ` + "`^1.2.3`" + `, ` + "`~1.2`" + `, ` + "`>=1.0.0 <2.0.0`" + ` or ` + "`1.x`" + `.
- Tags (` + "`latest`" + `), URLs and file paths are not version ranges.`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/v10/configuring-npm/package-json#dependencies"},
	}

	anchorUnavailableIssue = &Issue{
		id: AnchorUnavailableId,
		mdMsg: `
# Search start directory unavailable

The lookup starts above the directory lintcfg is installed in. That
directory could not be determined.

## Things you can try:
- Pass it explicitly with ` + "`--anchor DIR`" + `.
- Or set ` + "`resolve.anchor`" + ` in lintcfg.cue.`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown output format

Supported formats are ` + "`json`" + `, ` + "`yaml`" + ` and ` + "`toml`" + `.`,
	}

	invalidLayerIssue = &Issue{
		id: InvalidLayerId,
		mdMsg: `
# Unknown rule layer

Optional layers are ` + "`es-module`" + `, ` + "`node`" + `, ` + "`jsdoc`" + `, ` + "`react`" + ` and ` + "`vue`" + `.
Base layers are always included and do not need to be requested.`,
	}

	invalidModeIssue = &Issue{
		id: InvalidModeId,
		mdMsg: `
# Unknown build mode

Use ` + "`production`" + ` (or ` + "`prod`" + `) or ` + "`development`" + `.
Without ` + "`--mode`" + `, the mode follows NODE_ENV.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		emptyPackageNameIssue.Id():  emptyPackageNameIssue,
		invalidRangeIssue.Id():      invalidRangeIssue,
		anchorUnavailableIssue.Id(): anchorUnavailableIssue,
		invalidFormatIssue.Id():     invalidFormatIssue,
		invalidLayerIssue.Id():      invalidLayerIssue,
		invalidModeIssue.Id():       invalidModeIssue,
	}
)

// Values returns every registered guide ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
