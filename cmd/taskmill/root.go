// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"taskmill-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// colorScheme is the glamour style used for issue cards, overridable
	// through the ui.color_scheme config setting
	colorScheme = "dark"
)

// newRootCommand assembles the base command and its subcommand tree. Every
// subcommand is constructed explicitly against the App composition root, so
// tests can wire a full tree around stub services.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskmill",
		Short: "A fast task runner for developer projects",
		Long: TitleStyle.Render("taskmill") + SubtitleStyle.Render(" - A fast task runner for developer projects") + `

taskmill runs tasks defined in a 'taskmill.toml' file at your project
root. Tasks are plain shell commands with optional namespaces,
per-task environments, and composite tasks that chain other tasks.

Python projects get automatic environment handling: taskmill detects
virtualenvs, uv projects and editable installs, and runs your tasks
inside them without any wrapper scripts.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a taskmill.toml in your project directory
  2. Define tasks under [tasks] using TOML
  3. Run tasks with: taskmill <task-name>

` + SubtitleStyle.Render("Examples:") + `
  taskmill tasks            List all available tasks
  taskmill build            Run the 'build' task
  taskmill test.unit        Run the nested 'test.unit' task
  taskmill run lint -- -v   Pass extra args through to the task
  taskmill config show      Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initRootConfig(cmd.Context(), app)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/taskmill/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newRunCommand(app))
	rootCmd.AddCommand(newTasksCommand(app))
	rootCmd.AddCommand(newWorkspaceCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newDocsCommand())
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
// It only needs to happen once per process.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	rootCmd := newRootCommand(app)

	// Rewrite `taskmill build` into `taskmill run build` before Cobra parses
	// anything, so bare task names stay the primary way to run tasks.
	args, _ := interceptTaskArgs(rootCmd, os.Args[1:])
	rootCmd.SetArgs(args)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig loads configuration once before any subcommand runs and
// applies flag fallbacks from it.
func initRootConfig(ctx context.Context, app *App) {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
	if cfg != nil && cfg.UI.ColorScheme != "" {
		colorScheme = cfg.UI.ColorScheme.String()
	}

	if verbose {
		app.logger.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
