// SPDX-License-Identifier: MPL-2.0

package preset

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Frameworks with a rule adapter. The names double as npm package names.
const (
	FrameworkVue   = "vue"
	FrameworkReact = "react"
)

// vue3Major is the first Vue major served by the vue3-* plugin presets.
const vue3Major = 3

type (
	// Framework is a detected UI framework and its minimum declared version.
	Framework struct {
		Name    string
		Version *semver.Version
	}

	// VersionLookup resolves the minimum declared version of a dependency,
	// returning 0.0.0 when it is not declared. *depversion.Resolver
	// satisfies it.
	VersionLookup interface {
		Resolve(name string, includeDev bool) (*semver.Version, error)
	}
)

// DetectFrameworks asks lookup for every framework with an adapter and
// returns those declared with a version above 0.0.0.
func DetectFrameworks(lookup VersionLookup, includeDev bool) ([]Framework, error) {
	var found []Framework
	for _, name := range []string{FrameworkVue, FrameworkReact} {
		v, err := lookup.Resolve(name, includeDev)
		if err != nil {
			return nil, fmt.Errorf("detect %s: %w", name, err)
		}
		if v.GreaterThan(zeroVersion) {
			found = append(found, Framework{Name: name, Version: v})
		}
	}
	return found, nil
}

var zeroVersion = semver.New(0, 0, 0, "", "")

// layer returns the rule layer serving the framework.
func (f Framework) layer() Layer {
	switch f.Name {
	case FrameworkVue:
		return LayerVue
	case FrameworkReact:
		return LayerReact
	default:
		return ""
	}
}

// pluginPreset returns the plugin-provided config the framework layer builds
// on, picked by major version.
func (f Framework) pluginPreset() string {
	if f.Name != FrameworkVue {
		return ""
	}
	if f.Version != nil && f.Version.Major() >= vue3Major {
		return "plugin:vue/vue3-recommended"
	}
	return "plugin:vue/recommended"
}
