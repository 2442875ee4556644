// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// reservedWords are names that must never be treated as task names even
// though no subcommand is registered for them when the rewrite runs: cobra
// wires "help" and the "__complete" machinery at execute time, and fang adds
// its hidden "man" command inside Execute.
var reservedWords = map[string]bool{
	"help": true,
	"man":  true,
}

// interceptTaskArgs rewrites a bare task invocation into the equivalent
// `run` invocation: `taskmill build` becomes `taskmill run build`. The first
// argument must look like a task name — not a flag and not a registered
// subcommand — for the rewrite to happen. It returns the argument list to
// use and whether it was rewritten.
func interceptTaskArgs(rootCmd *cobra.Command, args []string) ([]string, bool) {
	if len(args) == 0 {
		return args, false
	}

	first := args[0]
	if strings.HasPrefix(first, "-") {
		return args, false
	}
	if reservedWords[first] || strings.HasPrefix(first, "__") {
		return args, false
	}

	for _, sub := range rootCmd.Commands() {
		if sub.Name() == first || sub.HasAlias(first) {
			return args, false
		}
	}

	rewritten := make([]string, 0, len(args)+1)
	rewritten = append(rewritten, "run")
	rewritten = append(rewritten, args...)
	return rewritten, true
}
