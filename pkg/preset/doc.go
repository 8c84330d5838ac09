// SPDX-License-Identifier: MPL-2.0

// Package preset composes a shareable lint configuration from rule layers.
//
// A few rules change severity with the build mode, and framework layers are
// added for the UI frameworks a project declares. DetectFrameworks finds
// those through a VersionLookup such as *depversion.Resolver, so the Vue
// layer can pick its plugin preset by major version.
package preset
