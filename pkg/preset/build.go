// SPDX-License-Identifier: MPL-2.0

package preset

import (
	"path"

	"github.com/lintcfg/lintcfg/pkg/environment"
)

const (
	// DefaultRulesDir is where the rule layer files live, relative to the
	// rendered config.
	DefaultRulesDir = "./rules"

	ecmaVersion = 2018
	sourceType  = "module"
)

// warningTerms are comment prefixes flagged by no-warning-comments.
var warningTerms = []string{"todo", "fixme", "xxx", "bug", "mock"}

// Options selects what Build composes.
type Options struct {
	Mode       environment.Mode
	Frameworks []Framework
	Layers     []Layer
	// RulesDir defaults to DefaultRulesDir.
	RulesDir string
}

// Build composes the shareable config for opts. Unknown layers are ignored;
// validate them with Layer.IsValid first.
func Build(opts Options) *Document {
	rulesDir := opts.RulesDir
	if rulesDir == "" {
		rulesDir = DefaultRulesDir
	}

	doc := &Document{
		ParserOptions: ParserOptions{
			EcmaVersion: ecmaVersion,
			SourceType:  sourceType,
			EcmaFeatures: map[string]bool{
				"globalReturn":  false,
				"impliedStrict": false,
				"jsx":           false,
			},
		},
		Rules: envRules(opts.Mode.IsProduction()),
	}

	seen := make(map[string]bool)
	extend := func(ref string) {
		if ref == "" || seen[ref] {
			return
		}
		seen[ref] = true
		doc.Extends = append(doc.Extends, ref)
	}
	layerRef := func(l Layer) string { return "./" + path.Join(rulesDir, string(l)) }

	for _, l := range BaseLayers() {
		extend(layerRef(l))
	}
	for _, l := range opts.Layers {
		if ok, _ := l.IsValid(); ok {
			extend(layerRef(l))
		}
	}

	for _, fw := range opts.Frameworks {
		l := fw.layer()
		if l == "" {
			continue
		}
		extend(fw.pluginPreset())
		extend(layerRef(l))
		doc.ParserOptions.EcmaFeatures["jsx"] = true

		if fw.Name == FrameworkReact {
			react := map[string]any{"pragma": "React"}
			if fw.Version != nil {
				react["version"] = fw.Version.String()
			}
			if doc.Settings == nil {
				doc.Settings = map[string]any{}
			}
			doc.Settings["react"] = react
		}
	}

	return doc
}

// envRules returns the rules whose severity follows the build mode.
func envRules(prod bool) map[string]RuleEntry {
	pick := func(ifProd, otherwise Severity) Severity {
		if prod {
			return ifProd
		}
		return otherwise
	}

	terms := make([]any, len(warningTerms))
	for i, t := range warningTerms {
		terms[i] = t
	}

	return map[string]RuleEntry{
		"no-console":  Level(pick(Warn, Off)),
		"no-debugger": Level(pick(Error, Off)),
		"no-alert":    Level(pick(Error, Off)),
		"no-warning-comments": {
			Severity: pick(Error, Warn),
			Options:  []any{map[string]any{"terms": terms, "location": "start"}},
		},
	}
}
