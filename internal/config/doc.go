// SPDX-License-Identifier: MPL-2.0

// Package config loads lintcfg settings using Viper with CUE as the file format.
//
// The file is lintcfg.cue in the platform config directory ($XDG_CONFIG_HOME/lintcfg
// on Linux, ~/Library/Application Support/lintcfg on macOS, %APPDATA%\lintcfg on
// Windows) or in the working directory. It is validated against the embedded
// #Config schema in config_schema.cue. NODE_ENV overrides node_env.
package config
