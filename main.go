// SPDX-License-Identifier: MPL-2.0

// Command lintcfg renders a shareable lint configuration whose rules follow
// the build mode and the framework versions a project declares.
package main

import cmd "github.com/lintcfg/lintcfg/cmd/lintcfg"

func main() {
	cmd.Execute()
}
