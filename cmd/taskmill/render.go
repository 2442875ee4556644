// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taskmill-cli/internal/dag"
	"taskmill-cli/internal/issue"
	"taskmill-cli/internal/registry"
)

// renderTaskError maps resolution and task file errors to their styled cards
// before handing the error back for fang to report. Unknown errors pass
// through untouched.
func renderTaskError(app *App, err error) error {
	var notFound *registry.TaskNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprint(app.stderr, renderTaskNotFound(notFound))
		renderIssue(app.stderr, issue.TaskNotFoundId)
		return err
	}

	if errors.Is(err, os.ErrNotExist) {
		renderIssue(app.stderr, issue.TaskfileNotFoundId)
		return err
	}

	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		renderIssue(app.stderr, issue.DependencyCycleId)
		return err
	}

	var cfgErr *registry.ConfigError
	if errors.As(err, &cfgErr) {
		renderIssue(app.stderr, issue.TaskfileParseErrorId)
		return err
	}

	return err
}

// renderTaskNotFound creates the styled card shown when the resolution ladder
// is exhausted, listing the tasks that do exist.
func renderTaskNotFound(err *registry.TaskNotFoundError) string {
	var sb strings.Builder

	sb.WriteString(renderHeaderStyle.Render("✗ Task not found!"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("No task matches %s in the task file.\n\n",
		renderCommandStyle.Render("'"+err.Requested+"'")))

	sb.WriteString(renderLabelStyle.Render("Available tasks:"))
	sb.WriteString("\n")
	if len(err.Available) == 0 {
		sb.WriteString(renderValueStyle.Render("  (none)"))
		sb.WriteString("\n")
	} else {
		for _, name := range err.Available {
			sb.WriteString(renderValueStyle.Render("  • " + name.String()))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(renderHintStyle.Render("Run 'taskmill tasks' for descriptions, or 'taskmill tasks --verbose' for full details."))
	sb.WriteString("\n")

	return sb.String()
}

// renderIssue writes the glamour help card for id to w using the configured
// color scheme.
func renderIssue(w io.Writer, id issue.Id) {
	rendered, _ := issue.Get(id).Render(colorScheme)
	fmt.Fprint(w, rendered)
}
