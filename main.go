// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "taskmill-cli/cmd/taskmill"
)

func main() {
	cmd.Execute()
}
