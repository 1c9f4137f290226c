// SPDX-License-Identifier: MPL-2.0

// instdirs runs the post-install and post-uninstall directives that
// packages ship alongside their code.
package main

import (
	cmd "instdirs-cli/cmd/instdirs"
)

func main() {
	cmd.Execute()
}
