// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"taskmill-cli/internal/registry"
	"taskmill-cli/internal/runner"
	"taskmill-cli/internal/runtime"
	"taskmill-cli/internal/workspace"
	"taskmill-cli/pkg/taskfile"
)

// taskService is the production TaskService. It resolves the task file name
// and default timeout from configuration, parses the task file, and delegates
// execution to the runner.
type taskService struct {
	config ConfigProvider
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer

	// executor overrides the shell executor when non-nil (test seam).
	executor runner.Executor
}

func newTaskService(provider ConfigProvider, logger *log.Logger, stdout, stderr io.Writer) *taskService {
	return &taskService{
		config: provider,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Registry parses dir's task file and flattens it into a registry. The file
// name and the default task timeout come from configuration.
func (s *taskService) Registry(ctx context.Context, dir string) (*registry.Registry, error) {
	cfg := loadConfigWithFallback(ctx, s.config)

	tf, err := taskfile.Parse(taskfile.PathIn(dir, cfg.TaskfileName.OrDefault()))
	if err != nil {
		return nil, err
	}
	return registry.Build(tf, taskfile.Defaults{Timeout: cfg.DefaultTimeout.Duration()})
}

// Execute resolves the request against dir's registry and runs the plan. For
// resolve-only requests nothing is executed; the result carries the plan and,
// for non-composite tasks, the command-line preview.
func (s *taskService) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	reg, err := s.Registry(ctx, req.Dir)
	if err != nil {
		return nil, err
	}

	plan, err := registry.NewResolver(reg).Resolve(req.Args, req.EnvOverrides)
	if err != nil {
		return nil, err
	}

	if req.ResolveOnly {
		return s.resolveOnly(ctx, reg, plan)
	}

	r := runner.New(reg, s.executor, s.logger)
	r.Stdout = s.stdout
	r.Stderr = s.stderr
	results, err := r.Run(ctx, plan)
	if err != nil {
		return nil, err
	}
	return &ExecuteResult{Plan: plan, Results: results}, nil
}

// resolveOnly previews the plan without executing it. Composite tasks have
// no single command line; their result carries the plan alone and the CLI
// layer renders the step list instead.
func (s *taskService) resolveOnly(ctx context.Context, reg *registry.Registry, plan *registry.ExecutionPlan) (*ExecuteResult, error) {
	result := &ExecuteResult{Plan: plan}
	if plan.Task.IsComposite() {
		return result, nil
	}

	inv := runtime.NewInvocation(plan.Task, reg.Source())
	inv.Context = ctx
	inv.Passthrough = plan.Passthrough
	inv.EnvOverrides = plan.EnvOverrides

	preview, err := s.shellExecutor().Preview(inv)
	if err != nil {
		return nil, err
	}
	result.Preview = preview
	return result, nil
}

// shellExecutor returns the executor used for previews. The injected test
// executor rarely is a ShellExecutor; previews then fall back to a default
// one, which is fine because Preview never spawns a process.
func (s *taskService) shellExecutor() *runtime.ShellExecutor {
	if shell, ok := s.executor.(*runtime.ShellExecutor); ok {
		return shell
	}
	return runtime.NewShellExecutor(s.logger)
}

// workspaceService is the production WorkspaceService: repository discovery,
// pattern filtering, and orchestration.
type workspaceService struct {
	config ConfigProvider
	logger *log.Logger

	// executor overrides the shell executor in every repository (test seam).
	executor runner.Executor
}

func newWorkspaceService(provider ConfigProvider, logger *log.Logger) *workspaceService {
	return &workspaceService{
		config: provider,
		logger: logger,
	}
}

// Run discovers repositories under the request root, filters them by name,
// and fans the task out.
func (s *workspaceService) Run(ctx context.Context, req WorkspaceRequest) (*workspace.Report, error) {
	repos, err := workspace.DiscoverRepos(req.Root)
	if err != nil {
		return nil, err
	}
	repos, err = workspace.FilterReposAny(repos, req.Patterns)
	if err != nil {
		return nil, err
	}

	orch := workspace.NewOrchestrator(s.logger)
	orch.Executor = s.executor

	mode := workspace.ModeSequential
	if req.Parallel {
		mode = workspace.ModeParallel
	}
	return orch.Run(ctx, req.Task, repos, workspace.Options{
		Mode:         mode,
		FailFast:     req.FailFast,
		EnvOverrides: req.EnvOverrides,
	}), nil
}
