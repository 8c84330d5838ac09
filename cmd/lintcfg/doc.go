// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the lintcfg CLI commands.
//
// The root command wires the dependency resolver, the environment helper and
// the preset builder behind resolve, env, preset and config subcommands.
package cmd
