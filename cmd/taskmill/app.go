// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"taskmill-cli/internal/config"
	"taskmill-cli/internal/registry"
	"taskmill-cli/internal/runtime"
	"taskmill-cli/internal/workspace"
	"taskmill-cli/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer — all Cobra command handlers receive an App reference and
	// delegate business logic through its service interfaces (Tasks, Workspace,
	// Config).
	App struct {
		Config    ConfigProvider
		Tasks     TaskService
		Workspace WorkspaceService
		stdout    io.Writer
		stderr    io.Writer
		logger    *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply mock
	// implementations to isolate specific service behavior.
	Dependencies struct {
		Config    ConfigProvider
		Tasks     TaskService
		Workspace WorkspaceService
		Stdout    io.Writer
		Stderr    io.Writer
		Logger    *log.Logger
	}

	// ExecuteRequest captures all task execution inputs as an immutable value.
	// It is the request-scoped data contract between the CLI layer (Cobra
	// handlers) and the TaskService implementation.
	ExecuteRequest struct {
		// Dir is the directory whose task file defines the task.
		Dir string
		// Args are the task name tokens followed by passthrough arguments.
		Args []string
		// EnvOverrides are KEY=VALUE pairs from --env flags (highest env priority).
		EnvOverrides map[string]string
		// ResolveOnly resolves the request without executing it (--dry-run, --info).
		ResolveOnly bool
	}

	// ExecuteResult contains task execution outcomes.
	ExecuteResult struct {
		// Plan is the resolved execution plan.
		Plan *registry.ExecutionPlan
		// Preview is the resolved command line and environment. Set only for
		// resolve-only requests on non-composite tasks.
		Preview *runtime.Preview
		// Results holds one entry per attempted task, in execution order.
		// Nil for resolve-only requests.
		Results []*runtime.TaskResult
	}

	// TaskService loads task registries and executes resolved task requests.
	// Implementations must not write to stdout/stderr themselves beyond the
	// streamed task output; errors come back as structured values for the CLI
	// layer to render.
	TaskService interface {
		Registry(ctx context.Context, dir string) (*registry.Registry, error)
		Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
	}

	// WorkspaceRequest captures one workspace orchestration as an immutable value.
	WorkspaceRequest struct {
		// Root is the directory scanned for repositories.
		Root string
		// Task is the task name to run in each repository.
		Task string
		// Patterns restricts the run to repositories whose name matches any
		// pattern. Empty means all repositories.
		Patterns []string
		// Parallel dispatches repositories concurrently.
		Parallel bool
		// FailFast stops a sequential run at the first failed repository.
		FailFast bool
		// EnvOverrides are KEY=VALUE pairs applied in every repository.
		EnvOverrides map[string]string
	}

	// WorkspaceService fans one task name out across workspace repositories.
	WorkspaceService interface {
		Run(ctx context.Context, req WorkspaceRequest) (*workspace.Report, error)
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: "taskmill",
		})
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Tasks == nil {
		deps.Tasks = newTaskService(deps.Config, deps.Logger, deps.Stdout, deps.Stderr)
	}
	if deps.Workspace == nil {
		deps.Workspace = newWorkspaceService(deps.Config, deps.Logger)
	}

	return &App{
		Config:    deps.Config,
		Tasks:     deps.Tasks,
		Workspace: deps.Workspace,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		logger:    deps.Logger,
	}, nil
}

// loadOptions translates the --config flag into provider options.
func loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(cfgFile)}
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults so callers stay operational; surfacing the failure to the
// user is the root command's job, once, at startup.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider) *config.Config {
	cfg, err := provider.Load(ctx, loadOptions())
	if err != nil || cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}
