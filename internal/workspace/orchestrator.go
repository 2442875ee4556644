// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"taskmill-cli/internal/registry"
	"taskmill-cli/internal/runner"
	"taskmill-cli/internal/runtime"
	"taskmill-cli/internal/testutil"
	"taskmill-cli/pkg/taskfile"
)

type (
	// Mode selects how repositories are attempted.
	Mode string

	// Options configures one workspace run.
	Options struct {
		Mode Mode
		// FailFast stops a sequential run at the first failed repository.
		// Parallel runs ignore it: every eligible repository is already in
		// flight before any result is known.
		FailFast     bool
		EnvOverrides map[string]string
	}

	// Orchestrator runs one task name across many repositories. Each
	// repository gets its own task file parse, registry, and runner; nothing
	// is shared between repos but the orchestrator itself.
	Orchestrator struct {
		logger *log.Logger

		// Executor overrides the shell executor for every repository run.
		Executor runner.Executor

		// Clock abstracts time for deterministic report durations. Nil means
		// the system clock.
		Clock testutil.Clock
	}
)

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// NewOrchestrator creates an Orchestrator. A nil logger discards.
func NewOrchestrator(logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{logger: logger}
}

// Run executes taskName across repos and aggregates the outcomes. A
// repository without the task (or without a task file at all) is skipped,
// never failed; a repository whose task file does not parse is failed. The
// report lists repositories in the order given, regardless of completion
// order.
func (o *Orchestrator) Run(ctx context.Context, taskName string, repos []Repo, opts Options) *Report {
	clock := o.clock()
	start := clock.Now()

	o.logger.Debug("running task across workspace",
		"task", taskName,
		"repos", len(repos),
		"mode", opts.Mode,
		"fail_fast", opts.FailFast)

	var results []RepoResult
	if opts.Mode == ModeParallel {
		if opts.FailFast {
			o.logger.Debug("fail-fast has no effect in parallel mode")
		}
		results = o.runParallel(ctx, taskName, repos, opts)
	} else {
		results = o.runSequential(ctx, taskName, repos, opts)
	}

	return newReport(taskName, len(repos), results, clock.Since(start))
}

// runSequential attempts repositories in order. With FailFast, the first
// failure stops the walk and later repositories stay unattempted.
func (o *Orchestrator) runSequential(ctx context.Context, taskName string, repos []Repo, opts Options) []RepoResult {
	var results []RepoResult
	for _, repo := range repos {
		res := o.runRepo(ctx, taskName, repo, opts)
		results = append(results, res)
		if res.Status == StatusFailed && opts.FailFast {
			o.logger.Debug("stopping workspace run early",
				"repo", repo.Name,
				"reason", res.Reason)
			break
		}
	}
	return results
}

// runParallel dispatches one goroutine per repository and assembles results
// by input index, so the report order never depends on completion order.
func (o *Orchestrator) runParallel(ctx context.Context, taskName string, repos []Repo, opts Options) []RepoResult {
	results := make([]RepoResult, len(repos))

	var wg sync.WaitGroup
	for i, repo := range repos {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.runRepo(ctx, taskName, repo, opts)
		}()
	}
	wg.Wait()

	return results
}

// runRepo attempts one repository: parse its task file, build its registry,
// resolve taskName with the usual ladder, and run the plan.
func (o *Orchestrator) runRepo(ctx context.Context, taskName string, repo Repo, opts Options) RepoResult {
	tf, err := taskfile.Parse(filepath.Join(repo.Path, taskfile.DefaultFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			o.logger.Warn("no task file in repository", "repo", repo.Name)
			return RepoResult{Repo: repo, Status: StatusSkipped, Reason: "no task file"}
		}
		return RepoResult{Repo: repo, Status: StatusFailed, Reason: err.Error()}
	}

	reg, err := registry.Build(tf, taskfile.Defaults{})
	if err != nil {
		return RepoResult{Repo: repo, Status: StatusFailed, Reason: err.Error()}
	}

	plan, err := registry.NewResolver(reg).Resolve([]string{taskName}, opts.EnvOverrides)
	if err != nil {
		var notFound *registry.TaskNotFoundError
		if errors.As(err, &notFound) {
			o.logger.Warn("task not found in repository", "repo", repo.Name, "task", taskName)
			return RepoResult{Repo: repo, Status: StatusSkipped, Reason: fmt.Sprintf("task %q not defined", taskName)}
		}
		return RepoResult{Repo: repo, Status: StatusFailed, Reason: err.Error()}
	}

	results, err := runner.New(reg, o.Executor, o.logger).Run(ctx, plan)
	if err != nil {
		return RepoResult{Repo: repo, Status: StatusFailed, Reason: err.Error()}
	}

	overall := runner.Overall(results)
	if overall == nil {
		return RepoResult{Repo: repo, Status: StatusFailed, Reason: "task produced no results"}
	}
	if !overall.Success() {
		return RepoResult{Repo: repo, Status: StatusFailed, Result: overall, Reason: failureReason(overall)}
	}
	return RepoResult{Repo: repo, Status: StatusSucceeded, Result: overall}
}

func (o *Orchestrator) clock() testutil.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return testutil.RealClock{}
}

// failureReason condenses a failed task result into one summary line.
func failureReason(result *runtime.TaskResult) string {
	switch {
	case result.TimedOut:
		return fmt.Sprintf("task %s timed out (exit code %d)", result.Task.Name, result.ExitCode)
	case result.Err != nil:
		return result.Err.Error()
	default:
		return fmt.Sprintf("task %s exited with code %d", result.Task.Name, result.ExitCode)
	}
}
