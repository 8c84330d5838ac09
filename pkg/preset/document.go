// SPDX-License-Identifier: MPL-2.0

package preset

type (
	// ParserOptions mirrors the parserOptions block of a shareable config.
	ParserOptions struct {
		EcmaVersion  int
		SourceType   string
		EcmaFeatures map[string]bool
	}

	// Override applies extra settings to files matching Files.
	Override struct {
		Files []string
		Env   map[string]bool
		Rules map[string]RuleEntry
	}

	// Document is a composed shareable config.
	Document struct {
		Root          bool
		Extends       []string
		Plugins       []string
		Parser        string
		ParserOptions ParserOptions
		Env           map[string]bool
		Settings      map[string]any
		Rules         map[string]RuleEntry
		Overrides     []Override
	}
)

// Map returns the document as nested maps and slices in the shape the
// linting engine reads. Empty sections are left out.
func (d *Document) Map() map[string]any {
	out := map[string]any{}

	if d.Root {
		out["root"] = true
	}
	if len(d.Extends) > 0 {
		out["extends"] = stringsAny(d.Extends)
	}
	if len(d.Plugins) > 0 {
		out["plugins"] = stringsAny(d.Plugins)
	}
	if d.Parser != "" {
		out["parser"] = d.Parser
	}
	if po := d.ParserOptions.toMap(); len(po) > 0 {
		out["parserOptions"] = po
	}
	if len(d.Env) > 0 {
		out["env"] = boolsAny(d.Env)
	}
	if len(d.Settings) > 0 {
		out["settings"] = d.Settings
	}
	if len(d.Rules) > 0 {
		out["rules"] = rulesAny(d.Rules)
	}
	if len(d.Overrides) > 0 {
		overrides := make([]any, 0, len(d.Overrides))
		for _, o := range d.Overrides {
			overrides = append(overrides, o.toMap())
		}
		out["overrides"] = overrides
	}

	return out
}

func (p ParserOptions) toMap() map[string]any {
	out := map[string]any{}
	if p.EcmaVersion != 0 {
		out["ecmaVersion"] = p.EcmaVersion
	}
	if p.SourceType != "" {
		out["sourceType"] = p.SourceType
	}
	if len(p.EcmaFeatures) > 0 {
		out["ecmaFeatures"] = boolsAny(p.EcmaFeatures)
	}
	return out
}

func (o Override) toMap() map[string]any {
	out := map[string]any{"files": stringsAny(o.Files)}
	if len(o.Env) > 0 {
		out["env"] = boolsAny(o.Env)
	}
	if len(o.Rules) > 0 {
		out["rules"] = rulesAny(o.Rules)
	}
	return out
}

func stringsAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func boolsAny(in map[string]bool) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func rulesAny(in map[string]RuleEntry) map[string]any {
	out := make(map[string]any, len(in))
	for name, entry := range in {
		out[name] = entry.value()
	}
	return out
}
