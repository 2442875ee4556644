// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"taskmill-cli/internal/workspace"

	"github.com/spf13/cobra"
)

// newWorkspaceCommand creates the `taskmill workspace` command tree.
func newWorkspaceCommand(app *App) *cobra.Command {
	wsCmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Run tasks across sibling repositories",
		Long: `Run the same task across every repository in a workspace.

A workspace is a directory whose direct subdirectories are git
repositories. Each repository runs the task against its own
taskmill.toml; repositories without the task are skipped, and the run
ends with a per-repository summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	wsCmd.AddCommand(newWorkspaceRunCommand(app))
	return wsCmd
}

// newWorkspaceRunCommand creates `taskmill workspace run`.
func newWorkspaceRunCommand(app *App) *cobra.Command {
	var (
		root     string
		patterns []string
		parallel bool
		failFast bool
		envPairs []string
	)

	runCmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Run a task in every workspace repository",
		Long: `Run one task across all repositories under the workspace root.

The root comes from --root, the workspace.root config setting, or the
current directory, in that order. Repositories are the root's direct
subdirectories that contain a .git entry. A repository that does not
define the task is skipped and never counts as a failure.

With --parallel every eligible repository runs concurrently and the
summary keeps the discovery order. --fail-fast stops a sequential run
at the first failing repository; parallel runs ignore it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envOverrides, err := parseEnvPairs(envPairs)
			if err != nil {
				return err
			}

			cfg := loadConfigWithFallback(cmd.Context(), app.Config)

			wsRoot := root
			if wsRoot == "" {
				wsRoot = cfg.Workspace.Root.String()
			}
			if wsRoot == "" {
				if wsRoot, err = os.Getwd(); err != nil {
					return fmt.Errorf("cannot determine working directory: %w", err)
				}
			}

			wsPatterns := patterns
			if len(wsPatterns) == 0 {
				for _, p := range cfg.Workspace.Patterns {
					wsPatterns = append(wsPatterns, p.String())
				}
			}

			report, err := app.Workspace.Run(cmd.Context(), WorkspaceRequest{
				Root:         wsRoot,
				Task:         args[0],
				Patterns:     wsPatterns,
				Parallel:     parallel || cfg.Workspace.Parallel,
				FailFast:     failFast,
				EnvOverrides: envOverrides,
			})
			if err != nil {
				return err
			}

			if report.Total == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No repositories found in "+wsRoot))
				return nil
			}

			renderWorkspaceReport(app.stdout, report)
			if !report.Success() {
				return &ExitError{
					Code: 1,
					Err:  fmt.Errorf("%d of %d repositories failed", report.Failed, report.Total),
				}
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&root, "root", "", "workspace root directory (default: workspace.root config, else the current directory)")
	runCmd.Flags().StringArrayVar(&patterns, "repos", nil, "only run in repositories whose name matches PATTERN (repeatable)")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "run repositories concurrently")
	runCmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing repository (sequential runs only)")
	runCmd.Flags().StringArrayVar(&envPairs, "env", nil, "set an environment variable as KEY=VALUE (repeatable, highest precedence)")

	return runCmd
}

// renderWorkspaceReport prints per-repository outcomes in discovery order
// followed by the aggregate counts, plus a failure list when anything failed.
func renderWorkspaceReport(w io.Writer, report *workspace.Report) {
	fmt.Fprintln(w, TitleStyle.Render("Workspace run: "+report.TaskName))
	fmt.Fprintln(w)

	for _, res := range report.Repos {
		switch res.Status {
		case workspace.StatusSucceeded:
			fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), res.Repo.Name)
		case workspace.StatusFailed:
			fmt.Fprintf(w, "  %s %s  %s\n", ErrorStyle.Render("✗"), res.Repo.Name, VerboseStyle.Render(res.Reason))
		case workspace.StatusSkipped:
			fmt.Fprintf(w, "  %s %s  %s\n", WarningStyle.Render("-"), res.Repo.Name, VerboseStyle.Render(res.Reason))
		}
	}
	if unattempted := report.Total - len(report.Repos); unattempted > 0 {
		fmt.Fprintf(w, "  %s\n", VerboseStyle.Render(fmt.Sprintf("(%d not attempted after fail-fast stop)", unattempted)))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %d   %s %d   %s %d   %s %d\n",
		VerboseHighlightStyle.Render("Total:"), report.Total,
		SuccessStyle.Render("Succeeded:"), report.Succeeded,
		ErrorStyle.Render("Failed:"), report.Failed,
		WarningStyle.Render("Skipped:"), report.Skipped)
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Duration:"), report.Duration.Round(time.Millisecond))

	if failed := report.FailedRepos(); len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ErrorStyle.Render("Failed repositories:"))
		for _, res := range failed {
			fmt.Fprintf(w, "  • %s: %s\n", res.Repo.Name, res.Reason)
		}
	}
}
