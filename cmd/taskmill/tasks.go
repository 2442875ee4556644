// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"taskmill-cli/internal/registry"
	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"

	"github.com/spf13/cobra"
)

// newTasksCommand creates the `taskmill tasks` listing command.
func newTasksCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"list", "ls"},
		Short:   "List tasks defined in the task file",
		Long: `List every task defined in the project's taskmill.toml.

Namespaced tasks are shown as a tree under their namespace; a task named
'_default' is marked as the one a bare namespace invocation runs. With
--verbose each entry also shows its command preview or composite steps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cannot determine working directory: %w", err)
			}

			reg, err := app.Tasks.Registry(cmd.Context(), cwd)
			if err != nil {
				return renderTaskError(app, err)
			}

			renderTaskList(app.stdout, reg, verbose)
			return nil
		},
	}
}

// renderTaskList prints the hierarchical task listing: namespaced tasks as
// trees under their namespace, root-level tasks as a flat bullet list.
func renderTaskList(w io.Writer, reg *registry.Registry, verbose bool) {
	names := reg.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No tasks defined in the task file."))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Available tasks:"))
	fmt.Fprintln(w)

	groups := make(map[types.TaskName][]types.TaskName)
	var flat []types.TaskName
	for _, name := range names {
		if ns := name.Namespace(); ns != "" {
			groups[ns] = append(groups[ns], name)
		} else {
			flat = append(flat, name)
		}
	}

	for _, ns := range slices.Sorted(maps.Keys(groups)) {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render(ns.String()))

		members := groups[ns]
		for i, name := range members {
			guide, detail := "├── ", "│   "
			if i == len(members)-1 {
				guide, detail = "└── ", "    "
			}

			task, _ := reg.Lookup(name)
			fmt.Fprintf(w, "  %s%s\n", guide, taskLine(task))
			if verbose {
				writeTaskDetail(w, "  "+detail, task)
			}
		}
		fmt.Fprintln(w)
	}

	for _, name := range flat {
		task, _ := reg.Lookup(name)
		fmt.Fprintf(w, "  • %s\n", taskLine(task))
		if verbose {
			writeTaskDetail(w, "    ", task)
		}
	}
}

// taskLine renders one listing entry: leaf name, default marker, description.
func taskLine(task *taskfile.Task) string {
	line := task.Name.Leaf()
	if task.Name.IsDefault() {
		line += " " + SuccessStyle.Render("(default)")
	}
	if task.Description != "" {
		line += "  " + VerboseStyle.Render(task.Description.String())
	}
	return line
}

// writeTaskDetail adds the verbose preview line under a listing entry.
func writeTaskDetail(w io.Writer, indent string, task *taskfile.Task) {
	if task.IsComposite() {
		steps := make([]string, len(task.Run.Steps))
		for i, step := range task.Run.Steps {
			steps[i] = step.String()
		}
		fmt.Fprintf(w, "%s%s\n", indent, VerboseStyle.Render("Runs: "+strings.Join(steps, ", ")))
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, VerboseStyle.Render("Command: "+truncateCommand(task.Run.Command)))
}

// truncateCommand flattens and shortens long command previews so each
// listing entry stays on one line.
func truncateCommand(command string) string {
	const max = 60
	command = strings.ReplaceAll(command, "\n", " ")
	runes := []rune(command)
	if len(runes) <= max {
		return command
	}
	return string(runes[:max]) + "..."
}
