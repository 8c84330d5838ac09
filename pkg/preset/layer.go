// SPDX-License-Identifier: MPL-2.0

package preset

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// Rule layers shipped with the package. Each one is a rule file under the
// rules directory; their content is owned by the linting engine.
const (
	LayerPossibleErrors  Layer = "possible-errors"
	LayerBestPractices   Layer = "best-practices"
	LayerStrictMode      Layer = "strict-mode"
	LayerVariables       Layer = "variables"
	LayerNodeCommonJS    Layer = "node-commonjs"
	LayerStylisticIssues Layer = "stylistic-issues"
	LayerES6             Layer = "es6"
	LayerESModule        Layer = "es-module"
	LayerNode            Layer = "node"
	LayerJSDoc           Layer = "jsdoc"
	LayerReact           Layer = "react"
	LayerVue             Layer = "vue"
)

// ErrInvalidLayer is the sentinel error wrapped by InvalidLayerError.
var ErrInvalidLayer = errors.New("invalid layer")

type (
	// Layer names one rule file.
	Layer string

	// InvalidLayerError is returned when a Layer value is not recognized.
	InvalidLayerError struct {
		Value Layer
	}
)

// BaseLayers are always extended, in this order.
func BaseLayers() []Layer {
	return []Layer{
		LayerPossibleErrors,
		LayerBestPractices,
		LayerStrictMode,
		LayerVariables,
		LayerNodeCommonJS,
		LayerStylisticIssues,
		LayerES6,
	}
}

// OptionalLayers can be requested on top of the base layers.
func OptionalLayers() []Layer {
	return []Layer{LayerESModule, LayerNode, LayerJSDoc, LayerReact, LayerVue}
}

// IsValid returns whether the Layer is a known rule file.
func (l Layer) IsValid() (bool, []error) {
	if slices.Contains(BaseLayers(), l) || slices.Contains(OptionalLayers(), l) {
		return true, nil
	}
	return false, []error{&InvalidLayerError{Value: l}}
}

// String returns the string representation of the Layer.
func (l Layer) String() string { return string(l) }

// Error implements the error interface.
func (e *InvalidLayerError) Error() string {
	return fmt.Sprintf("invalid layer %q", e.Value)
}

// Unwrap returns ErrInvalidLayer so callers can use errors.Is for programmatic detection.
func (e *InvalidLayerError) Unwrap() error { return ErrInvalidLayer }
