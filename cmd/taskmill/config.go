// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"taskmill-cli/internal/config"
	"taskmill-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `taskmill config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage taskmill configuration",
		Long: `Manage taskmill configuration.

Configuration is stored in:
  - Linux: ~/.config/taskmill/config.cue
  - macOS: ~/Library/Application Support/taskmill/config.cue
  - Windows: %APPDATA%\taskmill\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions())
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		renderIssue(app.stderr, issue.ConfigLoadFailedId)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if cfgPath, pathErr := config.ConfigFilePath(); pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("taskfile_name"), valueStyle.Render(cfg.TaskfileName.OrDefault()))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_timeout"), valueStyle.Render(cfg.DefaultTimeout.Duration().String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("workspace"))
	if cfg.Workspace.Root == "" {
		fmt.Fprintf(app.stdout, "  root: %s\n", SubtitleStyle.Render("(current directory)"))
	} else {
		fmt.Fprintf(app.stdout, "  root: %s\n", valueStyle.Render(cfg.Workspace.Root.String()))
	}
	if len(cfg.Workspace.Patterns) == 0 {
		fmt.Fprintf(app.stdout, "  patterns: %s\n", SubtitleStyle.Render("(all repositories)"))
	} else {
		for _, pattern := range cfg.Workspace.Patterns {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(pattern.String()))
		}
	}
	fmt.Fprintf(app.stdout, "  parallel: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Workspace.Parallel)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, loadOptions())
	if err != nil {
		return err
	}

	switch key {
	case "taskfile_name":
		cfg.TaskfileName = config.TaskfileName(value)

	case "default_timeout":
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid default_timeout: %q is not a number of seconds", value)
		}
		cfg.DefaultTimeout = config.TimeoutSeconds(seconds)

	case "workspace.root":
		cfg.Workspace.Root = config.WorkspaceRoot(value)

	case "workspace.parallel":
		cfg.Workspace.Parallel = value == "true" || value == "1"

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: taskfile_name, default_timeout, workspace.root, workspace.parallel, ui.verbose, ui.color_scheme", key)
	}

	if isValid, errs := cfg.IsValid(); !isValid {
		return errs[0]
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
