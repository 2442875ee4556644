// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"time"

	"taskmill-cli/pkg/taskfile"
	"taskmill-cli/pkg/types"
)

// TaskResult is the outcome of one task execution.
type TaskResult struct {
	// Task is the executed task
	Task *taskfile.Task
	// ExitCode is the subprocess exit status; types.ExitCodeTimeout (124)
	// when the task was killed on timeout
	ExitCode types.ExitCode
	// Stdout holds captured standard output (empty in streaming mode)
	Stdout string
	// Stderr holds captured standard error (empty in streaming mode)
	Stderr string
	// Duration is the wall-clock execution time
	Duration time.Duration
	// TimedOut marks a task killed because it exceeded its timeout
	TimedOut bool
	// Err holds an infrastructure failure (shell not found, bad working
	// directory); nil for a normal non-zero exit
	Err error
}

// Success reports whether the task ran and exited zero.
func (r *TaskResult) Success() bool {
	return r.ExitCode.IsSuccess() && r.Err == nil
}

// newErrorResult creates a failed TaskResult for an infrastructure error.
func newErrorResult(task *taskfile.Task, err error) *TaskResult {
	return &TaskResult{Task: task, ExitCode: 1, Err: err}
}
