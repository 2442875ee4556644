// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"taskmill-cli/internal/registry"
	"taskmill-cli/internal/runtime"
	"taskmill-cli/pkg/taskfile"
)

// renderDryRun prints the resolved execution without running anything: the
// task, the detected strategy, working directory, full command line, and the
// environment the task would add — everything a user needs to understand what
// taskmill would do.
func renderDryRun(w io.Writer, plan *registry.ExecutionPlan, preview *runtime.Preview) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)

	task := plan.Task
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Task:"), task.Name)
	if task.Description != "" {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("About:"), task.Description)
	}

	if task.IsComposite() {
		renderCompositeDryRun(w, task)
		return
	}

	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Strategy:"), preview.Decision.Strategy)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("WorkDir:"), preview.Dir)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Timeout:"), task.Timeout)
	if preview.Decision.VenvBin != "" {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("PATH prepend:"), preview.Decision.VenvBin)
	}

	// Full command line: prefix applied, passthrough args shell-escaped.
	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Command:"))
	fmt.Fprintf(w, "    %s\n", CmdStyle.Render(preview.Command))

	// Only the task's own env and the CLI overrides; the inherited process
	// environment would drown them out.
	interesting := make(map[string]string, len(task.Env)+len(plan.EnvOverrides))
	for k := range task.Env {
		interesting[k] = preview.Env[k]
	}
	for k := range plan.EnvOverrides {
		interesting[k] = preview.Env[k]
	}
	if len(interesting) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, VerboseHighlightStyle.Render("  Environment:"))
		for _, k := range slices.Sorted(maps.Keys(interesting)) {
			fmt.Fprintf(w, "    %s=%s\n", k, interesting[k])
		}
	}

	fmt.Fprintln(w)
}

// renderCompositeDryRun lists the steps a composite task would run in order.
// Steps are not expanded; each one goes through environment detection only
// when it actually runs.
func renderCompositeDryRun(w io.Writer, task *taskfile.Task) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Steps:"))
	for i, step := range task.Run.Steps {
		fmt.Fprintf(w, "    %d. %s\n", i+1, step)
	}
	fmt.Fprintln(w)
}

// renderTaskInfo prints the details card behind `taskmill run --info`.
func renderTaskInfo(w io.Writer, task *taskfile.Task) {
	fmt.Fprintln(w, TitleStyle.Render(task.Name.String()))
	if task.Description != "" {
		fmt.Fprintln(w, SubtitleStyle.Render(task.Description.String()))
	}
	fmt.Fprintln(w)

	if task.IsComposite() {
		fmt.Fprintln(w, VerboseHighlightStyle.Render("  Steps:"))
		for _, step := range task.Run.Steps {
			fmt.Fprintf(w, "    • %s\n", step)
		}
	} else {
		fmt.Fprintln(w, VerboseHighlightStyle.Render("  Command:"))
		fmt.Fprintf(w, "    %s\n", CmdStyle.Render(task.Run.Command))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Timeout:"), task.Timeout)
	if !task.IsComposite() {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Mode:"), task.Mode)
	}
	if task.WorkingDir != "" {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("WorkDir:"), task.WorkingDir)
	}
	if task.StreamOutput {
		fmt.Fprintf(w, "  %s streamed\n", VerboseHighlightStyle.Render("Output:"))
	}
	if task.CommandPrefix != nil {
		prefix := *task.CommandPrefix
		if prefix == "" {
			prefix = "(none)"
		}
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Prefix:"), prefix)
	}
	if len(task.Env) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, VerboseHighlightStyle.Render("  Environment:"))
		for _, k := range slices.Sorted(maps.Keys(task.Env)) {
			fmt.Fprintf(w, "    %s=%s\n", k, task.Env[k])
		}
	}
	fmt.Fprintln(w)
}
