// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the CLI: what failed, on which
// resource, and what to try next. Known failure kinds also have Markdown
// guides rendered with glamour.
package issue
