// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when manifests or configuration files
// change.
//
// Directories are watched non-recursively: the resolver only ever reads the
// package.json directly inside each ancestor of its anchor, so a recursive
// watch would report changes that cannot affect the result. Events within
// the debounce window are coalesced into a single callback.
package watch
