// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"taskmill-cli/internal/issue"
	"taskmill-cli/internal/runner"
	"taskmill-cli/internal/runtime"

	"github.com/spf13/cobra"
)

// newRunCommand creates the `taskmill run` command, the execution entry point
// every bare `taskmill <task>` invocation is rewritten into.
func newRunCommand(app *App) *cobra.Command {
	var (
		dryRun   bool
		info     bool
		envPairs []string
	)

	runCmd := &cobra.Command{
		Use:   "run <task> [args...]",
		Short: "Run a task from the task file",
		Long: `Run a task defined in the project's taskmill.toml.

Task names may be dotted ('test.unit'), use ':' as a separator alias
('test:unit'), or be spelled as separate words ('test unit'). A bare
namespace runs its '_default' task, and unmatched trailing words become
arguments for the task's command line.

Everything after the task name is passed through to the task verbatim:

  taskmill run test -v -run TestParse`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envOverrides, err := parseEnvPairs(envPairs)
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cannot determine working directory: %w", err)
			}

			res, err := app.Tasks.Execute(cmd.Context(), ExecuteRequest{
				Dir:          cwd,
				Args:         args,
				EnvOverrides: envOverrides,
				ResolveOnly:  dryRun || info,
			})
			if err != nil {
				return renderTaskError(app, err)
			}

			switch {
			case info:
				renderTaskInfo(app.stdout, res.Plan.Task)
				return nil
			case dryRun:
				renderDryRun(app.stdout, res.Plan, res.Preview)
				return nil
			}

			return reportResults(app, res.Results)
		},
	}

	// Flag parsing stops at the task name; everything after it belongs to
	// the task's command line.
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the resolved command without executing it")
	runCmd.Flags().BoolVar(&info, "info", false, "show task details without executing")
	runCmd.Flags().StringArrayVar(&envPairs, "env", nil, "set an environment variable as KEY=VALUE (repeatable, highest precedence)")

	return runCmd
}

// parseEnvPairs converts repeated --env flags into an override map. Later
// pairs win over earlier ones.
func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env format %q: use KEY=VALUE", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}

// reportResults forwards captured output and maps the run's outcome to the
// process exit code. The last attempted result decides: a timeout renders its
// card and exits 124, any other failure propagates the subprocess exit code.
func reportResults(app *App, results []*runtime.TaskResult) error {
	for _, result := range results {
		writeCaptured(app, result)
	}

	overall := runner.Overall(results)
	if overall == nil || overall.Success() {
		return nil
	}

	if overall.TimedOut {
		renderIssue(app.stderr, issue.TaskTimeoutId)
		return &ExitError{
			Code: overall.ExitCode,
			Err:  fmt.Errorf("task %q timed out after %s", overall.Task.Name, overall.Task.Timeout),
		}
	}

	if overall.Err != nil {
		if errors.Is(overall.Err, runtime.ErrNoShell) {
			renderIssue(app.stderr, issue.ShellNotFoundId)
		}
		return &ExitError{Code: overall.ExitCode, Err: overall.Err}
	}

	if verbose {
		fmt.Fprintf(app.stdout, "%s Task %q exited with code %d\n",
			WarningStyle.Render("!"), overall.Task.Name, overall.ExitCode)
	}
	return &ExitError{Code: overall.ExitCode}
}

// writeCaptured forwards a captured-mode result's output to the CLI streams.
// Streaming results carry empty buffers, making this a no-op for them.
func writeCaptured(app *App, result *runtime.TaskResult) {
	if result.Stdout != "" {
		fmt.Fprint(app.stdout, result.Stdout)
	}
	if result.Stderr != "" {
		fmt.Fprint(app.stderr, result.Stderr)
	}
}
