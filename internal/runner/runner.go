// SPDX-License-Identifier: MPL-2.0

// Package runner executes resolved task plans: single shell tasks directly,
// composite tasks as a strictly sequential walk of their steps.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"taskmill-cli/internal/registry"
	"taskmill-cli/internal/runtime"
	"taskmill-cli/pkg/taskfile"
)

// Executor runs a single non-composite task invocation.
type Executor interface {
	Execute(inv *runtime.Invocation) *runtime.TaskResult
}

// Runner turns an execution plan into task results against one registry.
type Runner struct {
	reg      *registry.Registry
	executor Executor
	logger   *log.Logger

	// Stdout, Stderr and Stdin override the invocation stdio when non-nil.
	// The workspace orchestrator uses this to route repository output.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// New creates a Runner. A nil executor gets the default shell executor; a nil
// logger discards.
func New(reg *registry.Registry, executor Executor, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if executor == nil {
		executor = runtime.NewShellExecutor(logger)
	}
	return &Runner{reg: reg, executor: executor, logger: logger}
}

// Run executes the plan and returns one result per attempted task, in
// execution order. Composite tasks run their steps sequentially with the
// plan's passthrough arguments and env overrides, stopping at the first
// non-success; the results of unattempted steps are absent. A task failing is
// a result, not an error; the error return is reserved for a registry that
// no longer resolves a validated step.
func (r *Runner) Run(ctx context.Context, plan *registry.ExecutionPlan) ([]*runtime.TaskResult, error) {
	return r.runTask(ctx, plan.Task, plan.Passthrough, plan.EnvOverrides)
}

func (r *Runner) runTask(ctx context.Context, task *taskfile.Task, passthrough []string, envOverrides map[string]string) ([]*runtime.TaskResult, error) {
	if !task.IsComposite() {
		return []*runtime.TaskResult{r.execute(ctx, task, passthrough, envOverrides)}, nil
	}

	r.logger.Debug("running composite task", "task", task.Name, "steps", len(task.Run.Steps))

	results := make([]*runtime.TaskResult, 0, len(task.Run.Steps))
	for _, step := range task.Run.Steps {
		target, ok := r.reg.ResolveStep(step)
		if !ok {
			return results, fmt.Errorf("composite task %q references unknown step %q", task.Name, step)
		}
		sub, _ := r.reg.Lookup(target)

		stepResults, err := r.runTask(ctx, sub, passthrough, envOverrides)
		results = append(results, stepResults...)
		if err != nil {
			return results, err
		}
		if len(stepResults) == 0 {
			continue
		}
		if last := stepResults[len(stepResults)-1]; !last.Success() {
			r.logger.Debug("composite stopped at failed step",
				"task", task.Name,
				"step", sub.Name,
				"code", last.ExitCode)
			break
		}
	}
	return results, nil
}

func (r *Runner) execute(ctx context.Context, task *taskfile.Task, passthrough []string, envOverrides map[string]string) *runtime.TaskResult {
	inv := runtime.NewInvocation(task, r.reg.Source())
	inv.Context = ctx
	inv.Passthrough = passthrough
	inv.EnvOverrides = envOverrides
	if r.Stdout != nil {
		inv.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		inv.Stderr = r.Stderr
	}
	if r.Stdin != nil {
		inv.Stdin = r.Stdin
	}
	return r.executor.Execute(inv)
}

// Overall returns the result that decides the run's outcome: the last
// attempted one. Returns nil for an empty result set.
func Overall(results []*runtime.TaskResult) *runtime.TaskResult {
	if len(results) == 0 {
		return nil
	}
	return results[len(results)-1]
}
