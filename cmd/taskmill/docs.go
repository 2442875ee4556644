// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// taskfileReference is the embedded format reference behind
// `taskmill docs taskfile`.
const taskfileReference = `
# The taskmill.toml reference

Every repository gets one task file at its root. Tasks live under the
'tasks' table and are addressed by their dotted path.

## Project

~~~toml
[project]
name = "my-service"
~~~

The project name is optional. It names the repository in workspace
summaries and drives virtualenv and editable-install detection for
Python projects.

## Tasks

A task is a shell command:

~~~toml
[tasks.build]
run = "go build ./..."
description = "Compile the service"
~~~

Bare string and list shorthands work too:

~~~toml
[tasks]
lint = "golangci-lint run"
ci = ["lint", "test", "build"]
~~~

A list of task names makes a composite task: each step runs in order
and the first failure stops the chain.

## Namespaces

Tables without a 'run' key group tasks, up to three levels deep:

~~~toml
[tasks.test.unit]
run = "go test ./..."

[tasks.test._default]
run = "go test ./... -short"
~~~

'_default' names the task a bare namespace invocation runs:
'taskmill test' runs 'test._default', 'taskmill test unit' runs
'test.unit'. Dots, colons and spaces all separate segments on the
command line.

## Task fields

| Field | Default | Meaning |
|---|---|---|
| run | (required) | command string, or list of task names |
| description | "" | shown by 'taskmill tasks' |
| env | {} | extra environment for this task |
| working_dir | task file root | where the command runs |
| timeout | 300 | seconds before the process is killed (exit 124) |
| stream_output | false | forward output live instead of capturing |
| process_title_format | "full" | full, leaf, or abbreviated child title |
| command_prefix | (unset) | prefix override; "" forces no prefix |
| execution_mode | "auto" | auto, uv_run, direct, or system |

## Execution modes

In 'auto' mode taskmill inspects the repository: an editable install or
a recognized virtualenv runs the command directly with the venv's bin
directory on PATH; a uv project ('uv.lock' or '[tool.uv]' in
pyproject.toml) runs it under 'uv run'; anything else uses the system
interpreter. 'uv_run', 'direct', and 'system' force one behavior.

The TASKMILL_TASK_RUNNER environment variable overrides everything and
is used verbatim as the prefix; set it to the empty string to force
"no prefix" for every task.

## Environment precedence

Process environment, then the task's 'env' table, then '--env' values
from the command line. Later wins.
`

// newDocsCommand creates the `taskmill docs` command tree.
func newDocsCommand() *cobra.Command {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Reference documentation",
		Long:  "Rendered reference documentation for taskmill's file formats.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	docsCmd.AddCommand(&cobra.Command{
		Use:   "taskfile",
		Short: "Show the taskmill.toml format reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(taskfileReference)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	})

	return docsCmd
}
