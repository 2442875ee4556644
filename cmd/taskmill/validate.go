// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"
)

// newValidateCommand creates `taskmill validate`: a full parse and registry
// build plus a shell syntax check of every command, without executing
// anything.
func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the task file without running anything",
		Long: `Validate the project's taskmill.toml.

The file is parsed, the registry is built (catching unknown composite
steps, cycles, and nesting problems), and every task command is run
through a POSIX shell parser to surface quoting and syntax mistakes
before they bite at execution time.`,
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

			if reg.Len() == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No tasks defined in the task file."))
				return nil
			}

			parser := syntax.NewParser()
			problems := 0
			for _, name := range reg.Names() {
				task, _ := reg.Lookup(name)
				if task.IsComposite() {
					fmt.Fprintf(app.stdout, "  %s %s %s\n",
						SuccessStyle.Render("✓"), name, VerboseStyle.Render("(composite)"))
					continue
				}
				if _, err := parser.Parse(strings.NewReader(task.Run.Command), name.String()); err != nil {
					problems++
					fmt.Fprintf(app.stdout, "  %s %s  %s\n",
						ErrorStyle.Render("✗"), name, VerboseStyle.Render(err.Error()))
					continue
				}
				fmt.Fprintf(app.stdout, "  %s %s\n", SuccessStyle.Render("✓"), name)
			}

			fmt.Fprintln(app.stdout)
			if problems > 0 {
				fmt.Fprintln(app.stdout, ErrorStyle.Render(fmt.Sprintf("%d task(s) have shell syntax problems", problems)))
				return &ExitError{
					Code: 1,
					Err:  fmt.Errorf("%d of %d tasks failed validation", problems, reg.Len()),
				}
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render(fmt.Sprintf("All %d tasks are valid", reg.Len())))
			return nil
		},
	}
}
